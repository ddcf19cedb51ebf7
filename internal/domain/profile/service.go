package profile

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"

	"livactiv/backend/internal/utils"
)

type Service struct {
	fs         *firestore.Client
	authClient *auth.Client
}

func NewService(fs *firestore.Client, authClient *auth.Client) *Service {
	return &Service{fs: fs, authClient: authClient}
}

func (s *Service) userDoc(uid string) *firestore.DocumentRef {
	return s.fs.Collection("users").Doc(uid)
}

// Get retrieves a profile. Returns ErrNotFound when the user has no
// document yet (a brand-new account).
func (s *Service) Get(ctx context.Context, uid string) (*Profile, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}

	doc, err := s.userDoc(uid).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: profile not found", ErrNotFound)
	}

	var p Profile
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if p.UID == "" {
		p.UID = uid
	}
	return &p, nil
}

// UpsertMinimal seeds a user document at first sign-in.
func (s *Service) UpsertMinimal(ctx context.Context, uid, email string) error {
	_, err := s.userDoc(uid).Set(ctx, map[string]any{
		"uid":       uid,
		"email":     email,
		"updatedAt": time.Now().UTC(),
	}, firestore.MergeAll)
	return err
}

// SetRole records the role chosen during onboarding and advances the
// onboarding step.
func (s *Service) SetRole(ctx context.Context, uid, role string) error {
	if !ValidRole(role) {
		return fmt.Errorf("%w: role must be player, trainer or both", ErrBadRequest)
	}

	_, err := s.userDoc(uid).Set(ctx, map[string]any{
		"uid":            uid,
		"role":           role,
		"onboardingStep": StepProfileSetup,
		"updatedAt":      time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return nil
}

// Update applies a partial profile edit.
func (s *Service) Update(ctx context.Context, uid string, in UpdateProfileInput) (*Profile, error) {
	in.Trim()

	updates := map[string]any{
		"uid":       uid,
		"updatedAt": time.Now().UTC(),
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrBadRequest)
		}
		updates["name"] = *in.Name
	}
	if in.Bio != nil {
		updates["bio"] = utils.TrimMax(*in.Bio, 200)
	}
	if in.Avatar != nil {
		updates["avatar"] = *in.Avatar
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Sports != nil {
		updates["sports"] = *in.Sports
	}
	if in.Certifications != nil {
		updates["certifications"] = *in.Certifications
	}
	if in.HourlyRate != nil {
		if *in.HourlyRate < 0 {
			return nil, fmt.Errorf("%w: hourlyRate cannot be negative", ErrBadRequest)
		}
		updates["hourlyRate"] = *in.HourlyRate
	}

	if _, err := s.userDoc(uid).Set(ctx, updates, firestore.MergeAll); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.Get(ctx, uid)
}

// CompleteProfile marks onboarding done. Skipped on subsequent loads.
func (s *Service) CompleteProfile(ctx context.Context, uid string) error {
	_, err := s.userDoc(uid).Set(ctx, map[string]any{
		"profileComplete": true,
		"onboardingStep":  StepCompleted,
		"updatedAt":       time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to complete profile: %w", err)
	}
	return nil
}

// OnboardingStep resolves where the user sits in the onboarding flow.
func (s *Service) OnboardingStep(ctx context.Context, uid string) (string, error) {
	p, err := s.Get(ctx, uid)
	if err != nil {
		if IsErrNotFound(err) {
			return ResolveOnboardingStep(nil), nil
		}
		return "", err
	}
	return ResolveOnboardingStep(p), nil
}

// GetSettings returns the user's settings, falling back to defaults for
// users who never touched the settings screen.
func (s *Service) GetSettings(ctx context.Context, uid string) (Settings, error) {
	p, err := s.Get(ctx, uid)
	if err != nil {
		if IsErrNotFound(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, err
	}
	if p.Settings == (Settings{}) {
		return DefaultSettings(), nil
	}
	return p.Settings, nil
}

// UpdateSettings replaces the settings block wholesale, the way the
// settings screen writes it.
func (s *Service) UpdateSettings(ctx context.Context, uid string, settings Settings) error {
	if settings.Units != "" && settings.Units != "metric" && settings.Units != "imperial" {
		return fmt.Errorf("%w: units must be metric or imperial", ErrBadRequest)
	}

	_, err := s.userDoc(uid).Set(ctx, map[string]any{
		"settings":  settings,
		"updatedAt": time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}

// SaveTokens stores the push tokens a device registered.
func (s *Service) SaveTokens(ctx context.Context, uid string, in TokensInput) error {
	updates := map[string]any{
		"updatedAt": time.Now().UTC(),
	}
	if in.ExpoPushToken != "" {
		updates["expoPushToken"] = in.ExpoPushToken
	}
	if in.FCMToken != "" {
		updates["fcmToken"] = in.FCMToken
	}
	if len(updates) == 1 {
		return fmt.Errorf("%w: no tokens supplied", ErrBadRequest)
	}

	_, err := s.userDoc(uid).Set(ctx, updates, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

// DeleteAccount removes the user's bookings, hosted events, profile
// document and finally the auth user. Best effort per collection: a
// failure in one cascade step is logged and the rest still runs.
func (s *Service) DeleteAccount(ctx context.Context, uid string) error {
	if uid == "" {
		return fmt.Errorf("%w: uid is required", ErrBadRequest)
	}

	s.deleteWhere(ctx, "bookings", "userId", uid)
	s.deleteWhere(ctx, "events", "organizer", uid)

	if _, err := s.userDoc(uid).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	if s.authClient != nil {
		if err := s.authClient.DeleteUser(ctx, uid); err != nil {
			return fmt.Errorf("failed to delete auth user: %w", err)
		}
	}

	return nil
}

func (s *Service) deleteWhere(ctx context.Context, collection, field, value string) {
	iter := s.fs.Collection(collection).Where(field, "==", value).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Warn().Err(err).Str("collection", collection).Msg("account cascade: iterate failed")
			return
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			log.Warn().Err(err).Str("collection", collection).Str("id", doc.Ref.ID).Msg("account cascade: delete failed")
		}
	}
}
