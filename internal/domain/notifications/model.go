package notifications

import "time"

// Notification types, used both for routing pushes and for the per-user
// settings toggles.
const (
	TypeBookingUpdate = "booking_update"
	TypeChatMessage   = "chat_message"
	TypeEventUpdate   = "event_update"
	TypeEventReminder = "event_reminder"
)

// Notification is a per-user notification document.
type Notification struct {
	ID        string            `firestore:"id" json:"id"`
	UserID    string            `firestore:"userId" json:"userId"`
	Title     string            `firestore:"title" json:"title"`
	Body      string            `firestore:"body" json:"body"`
	Type      string            `firestore:"type,omitempty" json:"type,omitempty"`
	Data      map[string]string `firestore:"data,omitempty" json:"data,omitempty"`
	Read      bool              `firestore:"read" json:"read"`
	Timestamp time.Time         `firestore:"timestamp" json:"timestamp"`
}

// ListResult bundles a page of notifications with the unread count.
type ListResult struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unreadCount"`
}

// MarkReadInput represents input for marking notifications read
type MarkReadInput struct {
	IDs     []string `json:"ids,omitempty"`
	MarkAll bool     `json:"markAll,omitempty"`
}
