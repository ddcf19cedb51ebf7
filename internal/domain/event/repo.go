package event

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

func (r *Repo) col() *firestore.CollectionRef {
	return r.fs.Collection("events")
}

// Create creates a new event document
func (r *Repo) Create(ctx context.Context, e Event) (*Event, error) {
	ref := r.col().NewDoc()
	e.ID = ref.ID

	_, err := ref.Set(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &e, nil
}

// Get retrieves an event by ID
func (r *Repo) Get(ctx context.Context, id string) (*Event, error) {
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: event not found", ErrNotFound)
	}

	var e Event
	if err := doc.DataTo(&e); err != nil {
		return nil, fmt.Errorf("failed to parse event: %w", err)
	}
	e.ID = doc.Ref.ID

	return &e, nil
}

// Update merges field updates into an event document
func (r *Repo) Update(ctx context.Context, id string, updates map[string]interface{}) (*Event, error) {
	_, err := r.col().Doc(id).Set(ctx, updates, firestore.MergeAll)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return r.Get(ctx, id)
}

// Delete removes an event document. Only the account deletion cascade
// uses this; normal flow cancels instead.
func (r *Repo) Delete(ctx context.Context, id string) error {
	_, err := r.col().Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// ListAll lists events, newest first
func (r *Repo) ListAll(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	q := r.col().Query.OrderBy("createdAt", firestore.Desc).Limit(limit)
	return r.collect(ctx, q)
}

// ListByOrganizer lists the events a user hosts
func (r *Repo) ListByOrganizer(ctx context.Context, uid string) ([]Event, error) {
	q := r.col().Query.Where("organizer", "==", uid)
	return r.collect(ctx, q)
}

func (r *Repo) collect(ctx context.Context, q firestore.Query) ([]Event, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var events []Event
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate events: %w", err)
		}

		var e Event
		if err := doc.DataTo(&e); err != nil {
			continue
		}
		e.ID = doc.Ref.ID
		events = append(events, e)
	}

	if events == nil {
		events = []Event{}
	}

	return events, nil
}
