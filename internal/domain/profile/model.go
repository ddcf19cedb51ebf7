package profile

import (
	"strings"
	"time"
)

const (
	RolePlayer  = "player"
	RoleTrainer = "trainer"
	RoleBoth    = "both"
)

// Profile is the user document at users/{uid}.
type Profile struct {
	UID         string `firestore:"uid" json:"uid"`
	Email       string `firestore:"email,omitempty" json:"email,omitempty"`
	Name        string `firestore:"name,omitempty" json:"name,omitempty"`
	Role        string `firestore:"role,omitempty" json:"role,omitempty"`
	Bio         string `firestore:"bio,omitempty" json:"bio,omitempty"`
	Avatar      string `firestore:"avatar,omitempty" json:"avatar,omitempty"`
	Phone       string `firestore:"phone,omitempty" json:"phone,omitempty"`

	// Player attributes
	Sports []string `firestore:"sports,omitempty" json:"sports,omitempty"`

	// Trainer attributes
	Certifications []string `firestore:"certifications,omitempty" json:"certifications,omitempty"`
	HourlyRate     float64  `firestore:"hourlyRate,omitempty" json:"hourlyRate,omitempty"`

	OnboardingStep  string `firestore:"onboardingStep,omitempty" json:"onboardingStep,omitempty"`
	ProfileComplete bool   `firestore:"profileComplete" json:"profileComplete"`

	ExpoPushToken string `firestore:"expoPushToken,omitempty" json:"-"`
	FCMToken      string `firestore:"fcmToken,omitempty" json:"-"`

	Settings Settings `firestore:"settings,omitempty" json:"settings"`

	CreatedAt time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

func (p Profile) HasRole(r string) bool {
	return p.Role == r || p.Role == RoleBoth
}

// Settings are the per-user toggles surfaced on the settings screen.
type Settings struct {
	Notifications NotificationSettings `firestore:"notifications" json:"notifications"`
	Privacy       PrivacySettings      `firestore:"privacy" json:"privacy"`
	Theme         string               `firestore:"theme,omitempty" json:"theme,omitempty"`
	Units         string               `firestore:"units,omitempty" json:"units,omitempty"` // "metric" or "imperial"
}

type NotificationSettings struct {
	EventReminders bool `firestore:"eventReminders" json:"eventReminders"`
	BookingUpdates bool `firestore:"bookingUpdates" json:"bookingUpdates"`
	ChatMessages   bool `firestore:"chatMessages" json:"chatMessages"`
	EventUpdates   bool `firestore:"eventUpdates" json:"eventUpdates"`
}

type PrivacySettings struct {
	ShowProfile  bool `firestore:"showProfile" json:"showProfile"`
	ShowLocation bool `firestore:"showLocation" json:"showLocation"`
}

// DefaultSettings mirrors what a freshly onboarded client writes.
func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{
			EventReminders: true,
			BookingUpdates: true,
			ChatMessages:   true,
			EventUpdates:   true,
		},
		Privacy: PrivacySettings{
			ShowProfile:  true,
			ShowLocation: true,
		},
		Theme: "light",
		Units: "metric",
	}
}

// UpdateProfileInput represents input for a partial profile update
type UpdateProfileInput struct {
	Name           *string   `json:"name,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	Avatar         *string   `json:"avatar,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	Sports         *[]string `json:"sports,omitempty"`
	Certifications *[]string `json:"certifications,omitempty"`
	HourlyRate     *float64  `json:"hourlyRate,omitempty"`
}

func (in *UpdateProfileInput) Trim() {
	if in.Name != nil {
		*in.Name = strings.TrimSpace(*in.Name)
	}
	if in.Bio != nil {
		*in.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Phone != nil {
		*in.Phone = strings.TrimSpace(*in.Phone)
	}
}

// TokensInput carries the push tokens a device registers.
type TokensInput struct {
	ExpoPushToken string `json:"expoPushToken,omitempty"`
	FCMToken      string `json:"fcmToken,omitempty"`
}

func ValidRole(r string) bool {
	return r == RolePlayer || r == RoleTrainer || r == RoleBoth
}
