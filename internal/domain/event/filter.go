package event

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"livactiv/backend/internal/geo"
)

// DefaultCity is the placeholder the clients ship with; when the city
// filter still holds it, no city filtering is applied.
const DefaultCity = "New York, NY"

// Filters is a conjunctive filter configuration. Zero-valued dimensions
// are no-ops, so the empty Filters passes everything through.
type Filters struct {
	Query string
	City  string
	Sport string
	Price string // "all", "free" or "paid"

	// Date restricts events to the same calendar day as the target,
	// in the target's location.
	Date *time.Time

	// RadiusMiles restricts events to a great-circle radius around
	// (CenterLat, CenterLng). Zero disables the radius.
	RadiusMiles float64
	CenterLat   float64
	CenterLng   float64
}

// Apply returns the subset of events satisfying every active predicate,
// preserving input order. No ranking is applied.
func Apply(events []Event, f Filters) []Event {
	filtered := events

	if q := strings.TrimSpace(f.Query); q != "" {
		q = strings.ToLower(q)
		filtered = keep(filtered, func(e Event) bool {
			return strings.Contains(strings.ToLower(e.Title), q) ||
				strings.Contains(strings.ToLower(e.Description), q) ||
				strings.Contains(strings.ToLower(e.Location), q)
		})
	}

	if f.City != "" && f.City != DefaultCity {
		// Match on the city name alone, not the state suffix.
		city := strings.ToLower(strings.Split(f.City, ",")[0])
		filtered = keep(filtered, func(e Event) bool {
			return strings.Contains(strings.ToLower(e.Location), city)
		})
	}

	if sport := strings.TrimSpace(f.Sport); sport != "" {
		// Exact match on the type, substring on title/description. The
		// asymmetry is inherited from the clients and kept for parity.
		sport = strings.ToLower(sport)
		filtered = keep(filtered, func(e Event) bool {
			return strings.ToLower(e.Type) == sport ||
				strings.Contains(strings.ToLower(e.Title), sport) ||
				strings.Contains(strings.ToLower(e.Description), sport)
		})
	}

	if f.Price != "" && f.Price != "all" {
		filtered = keep(filtered, func(e Event) bool {
			switch f.Price {
			case "free":
				return e.Price == PriceTierFree
			case "paid":
				return e.Price == PriceTierPaid
			}
			return true
		})
	}

	if f.Date != nil {
		d := *f.Date
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999_000_000, d.Location())
		filtered = keep(filtered, func(e Event) bool {
			if e.Date.IsZero() {
				// Fail closed: an event without a usable date never
				// matches a date filter.
				log.Warn().Str("event", e.ID).Msg("filter: event has no usable date")
				return false
			}
			return !e.Date.Before(start) && !e.Date.After(end)
		})
	}

	if f.RadiusMiles > 0 {
		filtered = keep(filtered, func(e Event) bool {
			d := geo.DistanceMiles(f.CenterLat, f.CenterLng, e.Latitude, e.Longitude)
			return d <= f.RadiusMiles
		})
	}

	return filtered
}

func keep(events []Event, pred func(Event) bool) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}
