package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"livactiv/backend/internal/domain/chat"
	"livactiv/backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// registerStreams mounts the server-sent-events endpoints. Each stream
// redelivers the full result set on every backend change; clients
// replace their local copy wholesale rather than patching diffs.
func registerStreams(pr chi.Router, d RouterDeps) {
	pr.Get("/v1/events/stream", func(w http.ResponseWriter, r *http.Request) {
		ch := d.EventRepo.Watch(r.Context(), log.Logger)
		serveSSE(w, r, ch)
	})

	pr.Get("/v1/events/hosted/stream", func(w http.ResponseWriter, r *http.Request) {
		au, _ := middleware.GetAuthUser(r.Context())
		ch := d.EventRepo.WatchByOrganizer(r.Context(), au.UID, log.Logger)
		serveSSE(w, r, ch)
	})

	pr.Get("/v1/bookings/stream", func(w http.ResponseWriter, r *http.Request) {
		au, _ := middleware.GetAuthUser(r.Context())
		ch := d.BookingSvc.WatchForUser(r.Context(), au.UID, log.Logger)
		serveSSE(w, r, ch)
	})

	pr.Get("/v1/chats/event/{eventId}/stream", func(w http.ResponseWriter, r *http.Request) {
		key := chat.GroupKey(chi.URLParam(r, "eventId"))
		ch := d.ChatSvc.Watch(r.Context(), key, log.Logger)
		serveSSE(w, r, ch)
	})

	pr.Get("/v1/chats/direct/{otherUid}/stream", func(w http.ResponseWriter, r *http.Request) {
		au, _ := middleware.GetAuthUser(r.Context())
		key := chat.DirectKey(au.UID, chi.URLParam(r, "otherUid"))
		ch := d.ChatSvc.Watch(r.Context(), key, log.Logger)
		serveSSE(w, r, ch)
	})
}

// serveSSE drains a snapshot channel into the response as SSE data
// frames until the client disconnects or the channel closes.
func serveSSE[T any](w http.ResponseWriter, r *http.Request, ch <-chan []T) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		Fail(w, 500, "streaming unsupported")
		return
	}

	// Streams outlive the server's write timeout; clear the deadline
	// for this response so the connection is not cut mid-stream.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(200)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, open := <-ch:
			if !open {
				return
			}
			payload, err := json.Marshal(snapshot)
			if err != nil {
				log.Error().Err(err).Msg("sse: marshal snapshot")
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
