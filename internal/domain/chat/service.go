package chat

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"

	"livactiv/backend/internal/domain/event"
)

type Service struct {
	fs        *firestore.Client
	eventRepo *event.Repo
}

func NewService(fs *firestore.Client, eventRepo *event.Repo) *Service {
	return &Service{fs: fs, eventRepo: eventRepo}
}

func (s *Service) messagesCol(key string) *firestore.CollectionRef {
	return s.fs.Collection("chats").Doc(key).Collection("messages")
}

// Send appends a message to a conversation. Announcements are only
// allowed in event group chats, and only from the event's organizer.
func (s *Service) Send(ctx context.Context, key, senderUID, senderName string, in SendMessageInput) (*Message, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: conversation key is required", ErrBadRequest)
	}
	if in.Text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrBadRequest)
	}

	if in.IsAnnouncement {
		if !IsGroupKey(key) {
			return nil, fmt.Errorf("%w: announcements are only for event chats", ErrBadRequest)
		}
		ev, err := s.eventRepo.Get(ctx, EventIDFromKey(key))
		if err != nil {
			return nil, fmt.Errorf("%w: event not found", ErrNotFound)
		}
		if ev.Organizer != senderUID {
			return nil, fmt.Errorf("%w: only the organizer can post announcements", ErrUnauthorized)
		}
	}

	ref := s.messagesCol(key).NewDoc()
	m := Message{
		ID:             ref.ID,
		SenderID:       senderUID,
		SenderName:     senderName,
		Text:           in.Text,
		Timestamp:      time.Now().UTC(),
		IsAnnouncement: in.IsAnnouncement,
	}

	if _, err := ref.Set(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	return &m, nil
}

// List returns a conversation's messages, oldest first.
func (s *Service) List(ctx context.Context, key string, limit int) ([]Message, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: conversation key is required", ErrBadRequest)
	}
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	iter := s.messagesCol(key).
		OrderBy("timestamp", firestore.Asc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var messages []Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate messages: %w", err)
		}

		var m Message
		if err := doc.DataTo(&m); err != nil {
			continue
		}
		m.ID = doc.Ref.ID
		messages = append(messages, m)
	}

	if messages == nil {
		messages = []Message{}
	}

	return messages, nil
}

// Watch streams a conversation's full message list on every change.
func (s *Service) Watch(ctx context.Context, key string, log zerolog.Logger) <-chan []Message {
	out := make(chan []Message)

	go func() {
		defer close(out)

		q := s.messagesCol(key).OrderBy("timestamp", firestore.Asc)
		snaps := q.Snapshots(ctx)
		defer snaps.Stop()

		for {
			snap, err := snaps.Next()
			if err != nil {
				if ctx.Err() == nil {
					log.Error().Err(err).Str("key", key).Msg("chat watch stopped")
				}
				return
			}

			messages := make([]Message, 0, snap.Size)
			docs := snap.Documents
			for {
				doc, err := docs.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					log.Error().Err(err).Msg("chat watch: iterate snapshot")
					return
				}

				var m Message
				if err := doc.DataTo(&m); err != nil {
					continue
				}
				m.ID = doc.Ref.ID
				messages = append(messages, m)
			}

			select {
			case out <- messages:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
