package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetWants(t *testing.T) {
	tgt := target{toggles: map[string]bool{
		TypeBookingUpdate: true,
		TypeChatMessage:   false,
	}}

	assert.True(t, tgt.wants(TypeBookingUpdate))
	assert.False(t, tgt.wants(TypeChatMessage))
	// Unknown types are always delivered.
	assert.True(t, tgt.wants("something_else"))
}

func TestPushRelay_PostsExpectedPayload(t *testing.T) {
	var got relayMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewPusher(nil, srv.URL, zerolog.Nop())
	p.Push(context.Background(), target{ExpoPushToken: "ExponentPushToken[x]"}, "Booking confirmed", "See you there", map[string]string{"eventId": "e1"})

	assert.Equal(t, "ExponentPushToken[x]", got.To)
	assert.Equal(t, "default", got.Sound)
	assert.Equal(t, "Booking confirmed", got.Title)
	assert.Equal(t, "See you there", got.Body)
	assert.Equal(t, "e1", got.Data["eventId"])
}

func TestPush_NoTokensNoCalls(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	p := NewPusher(nil, srv.URL, zerolog.Nop())
	p.Push(context.Background(), target{}, "title", "body", nil)

	assert.False(t, called)
}
