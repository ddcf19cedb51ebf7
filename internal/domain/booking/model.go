package booking

import (
	"time"

	"livactiv/backend/internal/domain/event"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

// Booking is a user's request/confirmation to attend an event.
type Booking struct {
	ID              string    `firestore:"id" json:"id"`
	EventID         string    `firestore:"eventId" json:"eventId"`
	UserID          string    `firestore:"userId" json:"userId"`
	UserName        string    `firestore:"userName,omitempty" json:"userName,omitempty"`
	Status          string    `firestore:"status" json:"status"`
	CreatedAt       time.Time `firestore:"createdAt" json:"createdAt"`
	Paid            bool      `firestore:"paid" json:"paid"`
	PaymentIntentID string    `firestore:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
}

// UserSnapshot is the minimal profile view attached to a joined booking.
type UserSnapshot struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// BookingWithEvent is the joined view model: the booking, its referenced
// event (nil when the event document no longer exists) and a profile
// snapshot of the booking owner.
type BookingWithEvent struct {
	Booking
	Event       *event.Event `json:"event"`
	UserProfile UserSnapshot `json:"userProfile"`
}

// CreateBookingInput represents input for creating a booking
type CreateBookingInput struct {
	EventID         string `json:"eventId"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
}

// RosterEntry is one attendee row in the organizer's roster view.
type RosterEntry struct {
	Booking
	UserProfile UserSnapshot `json:"userProfile"`
}

// RosterCounts summarizes a roster by status.
type RosterCounts struct {
	Confirmed int `json:"confirmed"`
	Pending   int `json:"pending"`
	Rejected  int `json:"rejected"`
}

// Roster is the attendee list for one event.
type Roster struct {
	Attendees []RosterEntry `json:"attendees"`
	Counts    RosterCounts  `json:"counts"`
}

// InitialStatus returns the status a fresh booking gets: auto-approve
// events confirm immediately, everything else waits for the organizer.
func InitialStatus(autoApprove bool) string {
	if autoApprove {
		return StatusConfirmed
	}
	return StatusPending
}

var statusOrder = map[string]int{
	StatusConfirmed: 0,
	StatusPending:   1,
	StatusRejected:  2,
}

func statusRank(s string) int {
	if r, ok := statusOrder[s]; ok {
		return r
	}
	return 3
}
