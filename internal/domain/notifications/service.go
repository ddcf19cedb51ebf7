package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
)

var ErrBadRequest = errors.New("bad request")

type Service struct {
	fs     *firestore.Client
	pusher *Pusher
}

func NewService(fs *firestore.Client, pusher *Pusher) *Service {
	return &Service{fs: fs, pusher: pusher}
}

func (s *Service) col() *firestore.CollectionRef {
	return s.fs.Collection("notifications")
}

// Notify writes a notification document and pushes it to the user's
// registered devices. The user's settings toggles gate delivery by
// type; a disabled toggle suppresses both the document and the push.
func (s *Service) Notify(ctx context.Context, uid, title, body, typ string, data map[string]string) error {
	if uid == "" {
		return fmt.Errorf("%w: uid is required", ErrBadRequest)
	}

	target, err := s.loadTarget(ctx, uid)
	if err != nil {
		return err
	}
	if !target.wants(typ) {
		log.Debug().Str("uid", uid).Str("type", typ).Msg("notification suppressed by settings")
		return nil
	}

	ref := s.col().NewDoc()
	n := Notification{
		ID:        ref.ID,
		UserID:    uid,
		Title:     title,
		Body:      body,
		Type:      typ,
		Data:      data,
		Read:      false,
		Timestamp: time.Now().UTC(),
	}
	if _, err := ref.Set(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.pusher != nil {
		s.pusher.Push(ctx, target, title, body, data)
	}

	return nil
}

// ListForUser returns a user's notifications, newest first, along with
// the unread count.
func (s *Service) ListForUser(ctx context.Context, uid string, unreadOnly bool, limit int) (*ListResult, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}

	query := s.col().Query.Where("userId", "==", uid)
	if unreadOnly {
		query = query.Where("read", "==", false)
	}
	query = query.OrderBy("timestamp", firestore.Desc)

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query = query.Limit(limit)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var notifications []Notification
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get notifications: %w", err)
		}

		var n Notification
		if err := doc.DataTo(&n); err != nil {
			continue
		}
		n.ID = doc.Ref.ID
		notifications = append(notifications, n)
	}

	if notifications == nil {
		notifications = []Notification{}
	}

	unreadIter := s.col().Query.
		Where("userId", "==", uid).
		Where("read", "==", false).
		Documents(ctx)
	defer unreadIter.Stop()

	unreadCount := int64(0)
	for {
		_, err := unreadIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			break
		}
		unreadCount++
	}

	return &ListResult{Notifications: notifications, UnreadCount: unreadCount}, nil
}

// MarkRead marks a set of notifications (or all unread) as read.
func (s *Service) MarkRead(ctx context.Context, uid string, in MarkReadInput) (int, error) {
	if uid == "" {
		return 0, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}

	now := time.Now().UTC()

	if in.MarkAll {
		iter := s.col().Query.
			Where("userId", "==", uid).
			Where("read", "==", false).
			Documents(ctx)
		defer iter.Stop()

		bw := s.fs.BulkWriter(ctx)
		count := 0
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return 0, fmt.Errorf("failed to get notifications: %w", err)
			}
			_, _ = bw.Set(doc.Ref, map[string]interface{}{
				"read":   true,
				"readAt": now,
			}, firestore.MergeAll)
			count++
		}
		bw.End()
		return count, nil
	}

	count := 0
	for _, id := range in.IDs {
		if id == "" {
			continue
		}
		ref := s.col().Doc(id)
		doc, err := ref.Get(ctx)
		if err != nil {
			continue // unknown id, nothing to mark
		}
		if !ownedBy(doc.Data(), uid) {
			continue
		}
		_, err = ref.Set(ctx, map[string]interface{}{
			"read":   true,
			"readAt": now,
		}, firestore.MergeAll)
		if err != nil {
			return count, fmt.Errorf("failed to mark notification read: %w", err)
		}
		count++
	}
	return count, nil
}

// ownedBy reports whether a notification document belongs to the user.
// Ids the caller does not own are skipped, never written.
func ownedBy(data map[string]interface{}, uid string) bool {
	owner, _ := data["userId"].(string)
	return owner != "" && owner == uid
}

// target carries the delivery info read from the user document.
type target struct {
	UID           string
	ExpoPushToken string
	FCMToken      string
	toggles       map[string]bool
}

func (t target) wants(typ string) bool {
	enabled, known := t.toggles[typ]
	if !known {
		return true // unrecognized types are always delivered
	}
	return enabled
}

func (s *Service) loadTarget(ctx context.Context, uid string) (target, error) {
	t := target{UID: uid, toggles: map[string]bool{}}

	doc, err := s.fs.Collection("users").Doc(uid).Get(ctx)
	if err != nil {
		// No profile: store the notification, skip push.
		return t, nil
	}

	data := doc.Data()
	t.ExpoPushToken, _ = data["expoPushToken"].(string)
	t.FCMToken, _ = data["fcmToken"].(string)

	settings, _ := data["settings"].(map[string]interface{})
	toggles, _ := settings["notifications"].(map[string]interface{})
	read := func(key string) bool {
		v, ok := toggles[key].(bool)
		if !ok {
			return true // missing toggle defaults to enabled
		}
		return v
	}

	t.toggles = map[string]bool{
		TypeBookingUpdate: read("bookingUpdates"),
		TypeChatMessage:   read("chatMessages"),
		TypeEventUpdate:   read("eventUpdates"),
		TypeEventReminder: read("eventReminders"),
	}

	return t, nil
}
