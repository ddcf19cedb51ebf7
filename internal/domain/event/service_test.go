package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validCreateInput() CreateEventInput {
	return CreateEventInput{
		Title:       "Morning Yoga",
		Type:        "Yoga",
		Price:       PriceTierFree,
		MaxCapacity: 10,
		Latitude:    33.4484,
		Longitude:   -112.0740,
		Location:    "Phoenix, AZ",
		Date:        "2026-09-01T09:00:00Z",
	}
}

func TestValidateCreateInput(t *testing.T) {
	assert.NoError(t, validateCreateInput(validCreateInput()))

	cases := []struct {
		name   string
		mutate func(*CreateEventInput)
	}{
		{"missing title", func(in *CreateEventInput) { in.Title = "" }},
		{"missing type", func(in *CreateEventInput) { in.Type = "" }},
		{"bad price tier", func(in *CreateEventInput) { in.Price = "Cheap" }},
		{"zero capacity", func(in *CreateEventInput) { in.MaxCapacity = 0 }},
		{"missing location", func(in *CreateEventInput) { in.Location = "" }},
		{"latitude out of range", func(in *CreateEventInput) { in.Latitude = 91 }},
		{"longitude out of range", func(in *CreateEventInput) { in.Longitude = -181 }},
		{"missing date", func(in *CreateEventInput) { in.Date = "" }},
		{"bad indoorOutdoor", func(in *CreateEventInput) { in.IndoorOutdoor = "underwater" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateInput()
			tc.mutate(&in)
			assert.ErrorIs(t, validateCreateInput(in), ErrBadRequest)
		})
	}
}

func TestCanHost(t *testing.T) {
	assert.True(t, canHost("trainer"))
	assert.True(t, canHost("both"))
	assert.False(t, canHost("player"))
	assert.False(t, canHost(""))
}

func TestEventIsFull(t *testing.T) {
	assert.False(t, Event{MaxCapacity: 10, CurrentAttendees: 9}.IsFull())
	assert.True(t, Event{MaxCapacity: 10, CurrentAttendees: 10}.IsFull())
	assert.True(t, Event{MaxCapacity: 10, CurrentAttendees: 11}.IsFull())
	// Capacity zero means the document predates the field; never full.
	assert.False(t, Event{MaxCapacity: 0, CurrentAttendees: 100}.IsFull())
}

func TestEventIsPaid(t *testing.T) {
	assert.True(t, Event{Price: PriceTierPaid}.IsPaid())
	assert.False(t, Event{Price: PriceTierFree}.IsPaid())
}
