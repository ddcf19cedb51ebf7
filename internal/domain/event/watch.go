package event

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
)

// Watch streams the full event collection on every change, cancelled
// events included so clients can reconcile bookings against them. There
// is no incremental diffing: each snapshot redelivers every matching
// document, which is the contract consumers rely on. The channel closes
// when ctx is cancelled or the stream fails.
func (r *Repo) Watch(ctx context.Context, log zerolog.Logger) <-chan []Event {
	return r.watch(ctx, r.col().Query, log)
}

// WatchByOrganizer streams the hosted-events set for one organizer.
func (r *Repo) WatchByOrganizer(ctx context.Context, uid string, log zerolog.Logger) <-chan []Event {
	q := r.col().Query.Where("organizer", "==", uid)
	return r.watch(ctx, q, log)
}

func (r *Repo) watch(ctx context.Context, q firestore.Query, log zerolog.Logger) <-chan []Event {
	out := make(chan []Event)

	go func() {
		defer close(out)

		snaps := q.Snapshots(ctx)
		defer snaps.Stop()

		for {
			snap, err := snaps.Next()
			if err != nil {
				if ctx.Err() == nil {
					log.Error().Err(err).Msg("event watch stopped")
				}
				return
			}

			events := make([]Event, 0, snap.Size)
			docs := snap.Documents
			for {
				doc, err := docs.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					log.Error().Err(err).Msg("event watch: iterate snapshot")
					return
				}

				var e Event
				if err := doc.DataTo(&e); err != nil {
					log.Warn().Str("id", doc.Ref.ID).Err(err).Msg("event watch: skip malformed document")
					continue
				}
				e.ID = doc.Ref.ID
				events = append(events, e)
			}

			log.Debug().Int("count", len(events)).Msg("event watch: snapshot")

			select {
			case out <- events:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
