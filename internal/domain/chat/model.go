package chat

import (
	"sort"
	"strings"
	"time"
)

// Message is one chat message stored under chats/{key}/messages.
type Message struct {
	ID             string    `firestore:"id" json:"id"`
	SenderID       string    `firestore:"senderId" json:"senderId"`
	SenderName     string    `firestore:"senderName,omitempty" json:"senderName,omitempty"`
	Text           string    `firestore:"text" json:"text"`
	Timestamp      time.Time `firestore:"timestamp" json:"timestamp"`
	IsAnnouncement bool      `firestore:"isAnnouncement" json:"isAnnouncement"`
}

// GroupKey derives the conversation key for an event's group chat.
func GroupKey(eventID string) string {
	return "event_" + eventID
}

// DirectKey derives the conversation key for a direct chat. The two
// uids sort lexicographically so both participants derive the same key.
func DirectKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return "chat_" + strings.Join(ids, "_")
}

// IsGroupKey reports whether a conversation key names an event chat.
func IsGroupKey(key string) bool {
	return strings.HasPrefix(key, "event_")
}

// EventIDFromKey extracts the event id from a group conversation key.
func EventIDFromKey(key string) string {
	if !IsGroupKey(key) {
		return ""
	}
	return strings.TrimPrefix(key, "event_")
}

// SendMessageInput represents input for sending a message
type SendMessageInput struct {
	Text           string `json:"text"`
	IsAnnouncement bool   `json:"isAnnouncement,omitempty"`
}
