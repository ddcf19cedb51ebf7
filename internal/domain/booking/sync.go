package booking

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
)

// WatchForUser streams the joined view of a user's bookings. Every
// change to the booking set redelivers the full joined list; a failed
// join for one booking degrades that record to a nil event instead of
// failing the batch. The channel closes when ctx is cancelled or the
// underlying stream fails.
func (s *Service) WatchForUser(ctx context.Context, uid string, log zerolog.Logger) <-chan []BookingWithEvent {
	out := make(chan []BookingWithEvent)

	go func() {
		defer close(out)

		q := s.fs.Collection("bookings").Query.Where("userId", "==", uid)
		snaps := q.Snapshots(ctx)
		defer snaps.Stop()

		for {
			snap, err := snaps.Next()
			if err != nil {
				if ctx.Err() == nil {
					log.Error().Err(err).Str("uid", uid).Msg("booking watch stopped")
				}
				return
			}

			bookings := make([]Booking, 0, snap.Size)
			docs := snap.Documents
			for {
				doc, err := docs.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					log.Error().Err(err).Msg("booking watch: iterate snapshot")
					return
				}

				var b Booking
				if err := doc.DataTo(&b); err != nil {
					log.Warn().Str("id", doc.Ref.ID).Err(err).Msg("booking watch: skip malformed document")
					continue
				}
				b.ID = doc.Ref.ID
				bookings = append(bookings, b)
			}

			joined := s.join(ctx, bookings)
			log.Debug().Int("count", len(joined)).Str("uid", uid).Msg("booking watch: snapshot")

			select {
			case out <- joined:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
