package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livactiv/backend/internal/domain/event"
)

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusConfirmed, InitialStatus(true))
	assert.Equal(t, StatusPending, InitialStatus(false))
}

func TestAssemble_MissingEventKeepsBooking(t *testing.T) {
	bookings := []Booking{
		{ID: "b1", EventID: "e1", UserID: "u1"},
		{ID: "b2", EventID: "gone", UserID: "u1"},
	}
	events := map[string]*event.Event{
		"e1": {ID: "e1", Title: "Morning Yoga"},
	}
	users := map[string]UserSnapshot{
		"u1": {Name: "Alex", Avatar: "https://example.com/a.png"},
	}

	joined := assemble(bookings, events, users)
	require.Len(t, joined, 2)

	assert.Equal(t, "b1", joined[0].ID)
	require.NotNil(t, joined[0].Event)
	assert.Equal(t, "Morning Yoga", joined[0].Event.Title)
	assert.Equal(t, "Alex", joined[0].UserProfile.Name)

	// The booking whose event was deleted is still present, with a nil
	// event rather than being dropped.
	assert.Equal(t, "b2", joined[1].ID)
	assert.Nil(t, joined[1].Event)
}

func TestAssemble_UnknownUserFallback(t *testing.T) {
	joined := assemble(
		[]Booking{{ID: "b1", EventID: "e1", UserID: "missing"}},
		map[string]*event.Event{},
		map[string]UserSnapshot{},
	)
	require.Len(t, joined, 1)
	assert.Equal(t, "Unknown User", joined[0].UserProfile.Name)
}

func TestBuildRoster_SortsAndCounts(t *testing.T) {
	entries := []RosterEntry{
		{Booking: Booking{ID: "r", Status: StatusRejected}},
		{Booking: Booking{ID: "p1", Status: StatusPending}},
		{Booking: Booking{ID: "c1", Status: StatusConfirmed}},
		{Booking: Booking{ID: "p2", Status: StatusPending}},
		{Booking: Booking{ID: "c2", Status: StatusConfirmed}},
	}

	roster := BuildRoster(entries)

	got := make([]string, 0, len(roster.Attendees))
	for _, e := range roster.Attendees {
		got = append(got, e.ID)
	}
	// Confirmed first, then pending, then rejected; stable within a
	// status bucket.
	assert.Equal(t, []string{"c1", "c2", "p1", "p2", "r"}, got)

	assert.Equal(t, RosterCounts{Confirmed: 2, Pending: 2, Rejected: 1}, roster.Counts)
}

func TestDistinct(t *testing.T) {
	bookings := []Booking{
		{EventID: "e1"},
		{EventID: "e2"},
		{EventID: "e1"},
		{EventID: ""},
	}
	assert.Equal(t, []string{"e1", "e2"}, distinct(bookings, func(b Booking) string { return b.EventID }))
}
