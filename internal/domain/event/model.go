package event

import (
	"strings"
	"time"
)

// Price tiers are stored as display strings; a paid event may carry the
// amount in the string itself (e.g. "Paid - $25").
const (
	PriceTierFree = "Free"
	PriceTierPaid = "Paid"
)

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// Event is a hostable activity stored in the events collection.
type Event struct {
	ID               string    `firestore:"id" json:"id"`
	Title            string    `firestore:"title" json:"title"`
	Type             string    `firestore:"type" json:"type"`
	Description      string    `firestore:"description,omitempty" json:"description,omitempty"`
	Price            string    `firestore:"price" json:"price"`
	MaxCapacity      int       `firestore:"maxCapacity" json:"maxCapacity"`
	CurrentAttendees int       `firestore:"currentAttendees" json:"currentAttendees"`
	Latitude         float64   `firestore:"latitude" json:"latitude"`
	Longitude        float64   `firestore:"longitude" json:"longitude"`
	Location         string    `firestore:"location" json:"location"`
	Date             time.Time `firestore:"date" json:"date"`
	Organizer        string    `firestore:"organizer" json:"organizer"`
	OrganizerName    string    `firestore:"organizerName,omitempty" json:"organizerName,omitempty"`
	Image            string    `firestore:"image,omitempty" json:"image,omitempty"`
	IndoorOutdoor    string    `firestore:"indoorOutdoor,omitempty" json:"indoorOutdoor,omitempty"` // "indoor" or "outdoor"
	AutoApprove      bool      `firestore:"autoApprove" json:"autoApprove"`
	Status           string    `firestore:"status" json:"status"`
	SearchTokens     []string  `firestore:"searchTokens,omitempty" json:"-"`
	CreatedAt        time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `firestore:"updatedAt" json:"updatedAt"`
	ExpiresAt        time.Time `firestore:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}

// IsPaid reports whether the event charges for attendance. The tier is
// an exact literal; amount-bearing strings ("Paid - $25") only appear in
// seeded data and are handled by the payments amount parser.
func (e Event) IsPaid() bool {
	return e.Price == PriceTierPaid
}

func (e Event) IsFull() bool {
	return e.MaxCapacity > 0 && e.CurrentAttendees >= e.MaxCapacity
}

// CreateEventInput represents input for creating an event
type CreateEventInput struct {
	Title         string  `json:"title"`
	Type          string  `json:"type"`
	Description   string  `json:"description,omitempty"`
	Price         string  `json:"price"`
	MaxCapacity   int     `json:"maxCapacity"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Location      string  `json:"location"`
	Date          string  `json:"date"` // RFC3339
	Image         string  `json:"image,omitempty"`
	IndoorOutdoor string  `json:"indoorOutdoor,omitempty"`
	AutoApprove   bool    `json:"autoApprove,omitempty"`
}

func (in *CreateEventInput) Trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Type = strings.TrimSpace(in.Type)
	in.Description = strings.TrimSpace(in.Description)
	in.Price = strings.TrimSpace(in.Price)
	in.Location = strings.TrimSpace(in.Location)
	in.Date = strings.TrimSpace(in.Date)
	in.Image = strings.TrimSpace(in.Image)
	in.IndoorOutdoor = strings.TrimSpace(in.IndoorOutdoor)
}

// UpdateEventInput represents input for updating an event
type UpdateEventInput struct {
	Title         *string  `json:"title,omitempty"`
	Type          *string  `json:"type,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Price         *string  `json:"price,omitempty"`
	MaxCapacity   *int     `json:"maxCapacity,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Location      *string  `json:"location,omitempty"`
	Date          *string  `json:"date,omitempty"`
	Image         *string  `json:"image,omitempty"`
	IndoorOutdoor *string  `json:"indoorOutdoor,omitempty"`
	AutoApprove   *bool    `json:"autoApprove,omitempty"`
}

func (in *UpdateEventInput) Trim() {
	if in.Title != nil {
		*in.Title = strings.TrimSpace(*in.Title)
	}
	if in.Type != nil {
		*in.Type = strings.TrimSpace(*in.Type)
	}
	if in.Description != nil {
		*in.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		*in.Price = strings.TrimSpace(*in.Price)
	}
	if in.Location != nil {
		*in.Location = strings.TrimSpace(*in.Location)
	}
	if in.Date != nil {
		*in.Date = strings.TrimSpace(*in.Date)
	}
}
