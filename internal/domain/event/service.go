package event

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"livactiv/backend/internal/utils"
)

type Service struct {
	repo *Repo
	fs   *firestore.Client
}

func NewService(repo *Repo, fs *firestore.Client) *Service {
	return &Service{repo: repo, fs: fs}
}

// Create creates a new event. Only trainers (or "both" accounts) host.
func (s *Service) Create(ctx context.Context, organizerUID, organizerName string, in CreateEventInput) (*Event, error) {
	in.Trim()

	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	role, err := s.userRole(ctx, organizerUID)
	if err != nil {
		return nil, fmt.Errorf("failed to check role: %w", err)
	}
	if !canHost(role) {
		return nil, fmt.Errorf("%w: only trainers can create events", ErrUnauthorized)
	}

	date, err := utils.ParseTime(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be a valid timestamp", ErrBadRequest)
	}

	now := time.Now().UTC()
	if !date.After(now) {
		return nil, fmt.Errorf("%w: date must be in the future", ErrBadRequest)
	}

	e := Event{
		Title:            in.Title,
		Type:             in.Type,
		Description:      in.Description,
		Price:            in.Price,
		MaxCapacity:      in.MaxCapacity,
		CurrentAttendees: 0,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		Location:         in.Location,
		Date:             date,
		Organizer:        organizerUID,
		OrganizerName:    organizerName,
		Image:            in.Image,
		IndoorOutdoor:    in.IndoorOutdoor,
		AutoApprove:      in.AutoApprove,
		Status:           StatusActive,
		SearchTokens:     utils.SearchTokens(in.Title, in.Type, in.Location),
		CreatedAt:        now,
		UpdatedAt:        now,
		ExpiresAt:        date,
	}

	return s.repo.Create(ctx, e)
}

// Get retrieves an event by ID
func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: event id is required", ErrBadRequest)
	}
	return s.repo.Get(ctx, id)
}

// Update applies a partial update. Only the organizer may edit.
func (s *Service) Update(ctx context.Context, uid, id string, in UpdateEventInput) (*Event, error) {
	in.Trim()

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Organizer != uid {
		return nil, fmt.Errorf("%w: only the organizer can edit an event", ErrUnauthorized)
	}

	updates := map[string]interface{}{
		"updatedAt": time.Now().UTC(),
	}

	title := existing.Title
	typ := existing.Type
	loc := existing.Location

	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrBadRequest)
		}
		updates["title"] = *in.Title
		title = *in.Title
	}
	if in.Type != nil {
		updates["type"] = *in.Type
		typ = *in.Type
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Price != nil {
		if !validPriceTier(*in.Price) {
			return nil, fmt.Errorf("%w: price must be %q or %q", ErrBadRequest, PriceTierFree, PriceTierPaid)
		}
		updates["price"] = *in.Price
	}
	if in.MaxCapacity != nil {
		if *in.MaxCapacity < 1 {
			return nil, fmt.Errorf("%w: maxCapacity must be at least 1", ErrBadRequest)
		}
		updates["maxCapacity"] = *in.MaxCapacity
	}
	if in.Latitude != nil {
		updates["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		updates["longitude"] = *in.Longitude
	}
	if in.Location != nil {
		updates["location"] = *in.Location
		loc = *in.Location
	}
	if in.Date != nil {
		date, err := utils.ParseTime(*in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be a valid timestamp", ErrBadRequest)
		}
		updates["date"] = date
		updates["expiresAt"] = date
	}
	if in.Image != nil {
		updates["image"] = *in.Image
	}
	if in.IndoorOutdoor != nil {
		if *in.IndoorOutdoor != "indoor" && *in.IndoorOutdoor != "outdoor" {
			return nil, fmt.Errorf("%w: indoorOutdoor must be indoor or outdoor", ErrBadRequest)
		}
		updates["indoorOutdoor"] = *in.IndoorOutdoor
	}
	if in.AutoApprove != nil {
		updates["autoApprove"] = *in.AutoApprove
	}

	if in.Title != nil || in.Type != nil || in.Location != nil {
		updates["searchTokens"] = utils.SearchTokens(title, typ, loc)
	}

	return s.repo.Update(ctx, id, updates)
}

// Cancel flips the event status. The document is kept so existing
// bookings still resolve.
func (s *Service) Cancel(ctx context.Context, uid, id string) (*Event, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Organizer != uid {
		return nil, fmt.Errorf("%w: only the organizer can cancel an event", ErrUnauthorized)
	}

	return s.repo.Update(ctx, id, map[string]interface{}{
		"status":    StatusCancelled,
		"updatedAt": time.Now().UTC(),
	})
}

// List lists events with filters applied server-side over the fetched set.
func (s *Service) List(ctx context.Context, f Filters, limit int) ([]Event, error) {
	events, err := s.repo.ListAll(ctx, limit)
	if err != nil {
		return nil, err
	}
	return Apply(events, f), nil
}

// ListHosted lists an organizer's events with attendee counts recomputed
// from confirmed bookings, so the hosted view survives counter drift.
func (s *Service) ListHosted(ctx context.Context, uid string) ([]Event, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}

	events, err := s.repo.ListByOrganizer(ctx, uid)
	if err != nil {
		return nil, err
	}

	for i := range events {
		n, err := s.countConfirmed(ctx, events[i].ID)
		if err != nil {
			// Keep the stored counter for this one event.
			continue
		}
		events[i].CurrentAttendees = n
	}

	return events, nil
}

func (s *Service) countConfirmed(ctx context.Context, eventID string) (int, error) {
	iter := s.fs.Collection("bookings").
		Where("eventId", "==", eventID).
		Where("status", "==", "confirmed").
		Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to count attendees: %w", err)
		}
		count++
	}
	return count, nil
}

func (s *Service) userRole(ctx context.Context, uid string) (string, error) {
	doc, err := s.fs.Collection("users").Doc(uid).Get(ctx)
	if err != nil {
		return "", nil // no profile yet, no role
	}
	role, _ := doc.Data()["role"].(string)
	return role, nil
}

func canHost(role string) bool {
	return role == "trainer" || role == "both"
}

func validPriceTier(p string) bool {
	return p == PriceTierFree || p == PriceTierPaid
}

func validateCreateInput(in CreateEventInput) error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrBadRequest)
	}
	if in.Type == "" {
		return fmt.Errorf("%w: type is required", ErrBadRequest)
	}
	if !validPriceTier(in.Price) {
		return fmt.Errorf("%w: price must be %q or %q", ErrBadRequest, PriceTierFree, PriceTierPaid)
	}
	if in.MaxCapacity < 1 {
		return fmt.Errorf("%w: maxCapacity must be at least 1", ErrBadRequest)
	}
	if in.Location == "" {
		return fmt.Errorf("%w: location is required", ErrBadRequest)
	}
	if in.Latitude < -90 || in.Latitude > 90 || in.Longitude < -180 || in.Longitude > 180 {
		return fmt.Errorf("%w: invalid coordinates", ErrBadRequest)
	}
	if in.Date == "" {
		return fmt.Errorf("%w: date is required", ErrBadRequest)
	}
	if in.IndoorOutdoor != "" && in.IndoorOutdoor != "indoor" && in.IndoorOutdoor != "outdoor" {
		return fmt.Errorf("%w: indoorOutdoor must be indoor or outdoor", ErrBadRequest)
	}
	return nil
}
