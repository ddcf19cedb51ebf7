package booking

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
	return r.fs.Collection("bookings")
}

// Get retrieves a booking by ID
func (r *Repo) Get(ctx context.Context, id string) (*Booking, error) {
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: booking not found", ErrNotFound)
	}

	var b Booking
	if err := doc.DataTo(&b); err != nil {
		return nil, fmt.Errorf("failed to parse booking: %w", err)
	}
	b.ID = doc.Ref.ID

	return &b, nil
}

// Update merges field updates into a booking document
func (r *Repo) Update(ctx context.Context, id string, updates map[string]interface{}) (*Booking, error) {
	_, err := r.col().Doc(id).Set(ctx, updates, firestore.MergeAll)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	return r.Get(ctx, id)
}

// ListByUser lists a user's bookings
func (r *Repo) ListByUser(ctx context.Context, uid string) ([]Booking, error) {
	q := r.col().Query.Where("userId", "==", uid)
	return r.collect(ctx, q)
}

// ListByEvent lists the bookings for one event
func (r *Repo) ListByEvent(ctx context.Context, eventID string) ([]Booking, error) {
	q := r.col().Query.Where("eventId", "==", eventID)
	return r.collect(ctx, q)
}

func (r *Repo) collect(ctx context.Context, q firestore.Query) ([]Booking, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var bookings []Booking
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate bookings: %w", err)
		}

		var b Booking
		if err := doc.DataTo(&b); err != nil {
			continue
		}
		b.ID = doc.Ref.ID
		bookings = append(bookings, b)
	}

	if bookings == nil {
		bookings = []Booking{}
	}

	return bookings, nil
}
