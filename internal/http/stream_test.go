package http

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deadlineRecorder exposes the write-deadline hook the way a real
// net/http connection does, so the stream handler's deadline reset is
// observable.
type deadlineRecorder struct {
	*httptest.ResponseRecorder
	cleared bool
}

func (d *deadlineRecorder) SetWriteDeadline(t time.Time) error {
	if t.IsZero() {
		d.cleared = true
	}
	return nil
}

func TestServeSSE_WritesFramesAndStopsOnClose(t *testing.T) {
	ch := make(chan []string, 1)
	ch <- []string{"a", "b"}
	close(ch)

	rec := &deadlineRecorder{ResponseRecorder: httptest.NewRecorder()}
	req := httptest.NewRequest("GET", "/v1/events/stream", nil)

	serveSSE(rec, req, ch)

	res := rec.Result()
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "data: [\"a\",\"b\"]\n\n", string(body))

	// The server write timeout must not apply to a long-lived stream.
	assert.True(t, rec.cleared)
}

func TestServeSSE_EmptySnapshotStillDelivered(t *testing.T) {
	ch := make(chan []string, 1)
	ch <- []string{}
	close(ch)

	rec := &deadlineRecorder{ResponseRecorder: httptest.NewRecorder()}
	serveSSE(rec, httptest.NewRequest("GET", "/v1/bookings/stream", nil), ch)

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Equal(t, "data: []\n\n", string(body))
}
