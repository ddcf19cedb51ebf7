package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixtureEvents() []Event {
	loc := time.Local
	return []Event{
		{
			ID: "yoga", Title: "Morning Yoga", Type: "Yoga",
			Description: "Sunrise flow in the park", Price: PriceTierFree,
			Location: "Phoenix, AZ", Latitude: 33.4484, Longitude: -112.0740,
			Date: time.Date(2026, 8, 29, 9, 0, 0, 0, loc),
		},
		{
			ID: "tennis", Title: "Tennis Doubles", Type: "Tennis",
			Description: "Competitive doubles, bring a partner", Price: PriceTierPaid,
			Location: "Scottsdale, AZ", Latitude: 33.4942, Longitude: -111.9261,
			Date: time.Date(2026, 8, 29, 18, 0, 0, 0, loc),
		},
		{
			ID: "run", Title: "City Run Club", Type: "Running",
			Description: "Casual 5k through downtown", Price: PriceTierFree,
			Location: "New York, NY", Latitude: 40.7128, Longitude: -74.0060,
			Date: time.Date(2026, 8, 30, 7, 0, 0, 0, loc),
		},
	}
}

func ids(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestApply_EmptyFiltersPassThrough(t *testing.T) {
	events := fixtureEvents()
	got := Apply(events, Filters{})
	assert.Equal(t, ids(events), ids(got))
}

func TestApply_Idempotent(t *testing.T) {
	events := fixtureEvents()
	f := Filters{Query: "a", Price: "free"}
	once := Apply(events, f)
	twice := Apply(once, f)
	assert.Equal(t, ids(once), ids(twice))
}

func TestApply_TextQuery(t *testing.T) {
	events := fixtureEvents()

	assert.Equal(t, []string{"yoga"}, ids(Apply(events, Filters{Query: "sunrise"})))
	assert.Equal(t, []string{"tennis"}, ids(Apply(events, Filters{Query: "SCOTTSDALE"})))
	assert.Empty(t, ids(Apply(events, Filters{Query: "hockey"})))
}

func TestApply_City(t *testing.T) {
	events := fixtureEvents()

	got := Apply(events, Filters{City: "Phoenix, AZ"})
	assert.Equal(t, []string{"yoga"}, ids(got))

	// The shipped default city is a no-op.
	got = Apply(events, Filters{City: DefaultCity})
	assert.Len(t, got, 3)
}

func TestApply_Sport(t *testing.T) {
	events := fixtureEvents()

	// Exact type match, case-insensitive.
	assert.Equal(t, []string{"tennis"}, ids(Apply(events, Filters{Sport: "tennis"})))

	// Substring against title/description also matches.
	assert.Equal(t, []string{"yoga"}, ids(Apply(events, Filters{Sport: "sunrise"})))
}

func TestApply_PriceTier(t *testing.T) {
	events := fixtureEvents()

	free := Apply(events, Filters{Price: "free"})
	for _, e := range free {
		assert.Equal(t, PriceTierFree, e.Price)
	}
	assert.Len(t, free, 2)

	paid := Apply(events, Filters{Price: "paid"})
	assert.Equal(t, []string{"tennis"}, ids(paid))

	all := Apply(events, Filters{Price: "all"})
	assert.Len(t, all, 3)
}

func TestApply_PriceTier_NoMatches(t *testing.T) {
	events := []Event{{ID: "e", Title: "Yoga", Price: PriceTierFree, Latitude: 33.45, Longitude: -112.07}}
	assert.Empty(t, Apply(events, Filters{Price: "paid"}))
}

func TestApply_DateBoundaries(t *testing.T) {
	target := time.Date(2026, 8, 29, 12, 0, 0, 0, time.Local)

	events := []Event{
		{ID: "end-of-day", Date: time.Date(2026, 8, 29, 23, 59, 59, 0, time.Local)},
		{ID: "start-of-day", Date: time.Date(2026, 8, 29, 0, 0, 0, 0, time.Local)},
		{ID: "next-day", Date: time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local)},
		{ID: "prev-day", Date: time.Date(2026, 8, 28, 23, 59, 59, 0, time.Local)},
	}

	got := Apply(events, Filters{Date: &target})
	assert.Equal(t, []string{"end-of-day", "start-of-day"}, ids(got))
}

func TestApply_DateFailsClosedOnMissingDate(t *testing.T) {
	target := time.Date(2026, 8, 29, 12, 0, 0, 0, time.Local)
	events := []Event{{ID: "no-date"}}

	assert.Empty(t, Apply(events, Filters{Date: &target}))
}

func TestApply_Radius(t *testing.T) {
	events := fixtureEvents()
	f := Filters{RadiusMiles: 10, CenterLat: 33.4484, CenterLng: -112.0740}

	got := Apply(events, f)
	// Phoenix event sits exactly on the center (distance 0); Scottsdale
	// is within ten miles; New York is far outside.
	assert.Equal(t, []string{"yoga", "tennis"}, ids(got))

	f.RadiusMiles = 1
	assert.Equal(t, []string{"yoga"}, ids(Apply(events, f)))
}

func TestApply_ConjunctiveAcrossDimensions(t *testing.T) {
	events := fixtureEvents()
	target := time.Date(2026, 8, 29, 0, 0, 0, 0, time.Local)

	got := Apply(events, Filters{
		Price:       "free",
		Date:        &target,
		RadiusMiles: 50,
		CenterLat:   33.4484,
		CenterLng:   -112.0740,
	})
	assert.Equal(t, []string{"yoga"}, ids(got))
}

func TestApply_PreservesOrder(t *testing.T) {
	events := fixtureEvents()
	got := Apply(events, Filters{City: "az"})
	assert.Equal(t, []string{"yoga", "tennis"}, ids(got))
}
