package payments

import (
	"regexp"
	"strconv"
	"strings"
)

// Modes. "simulated" keeps the payment flow local without calling
// Stripe at all, which is also the fallback when no key is configured.
const (
	ModeTest      = "test"
	ModeLive      = "live"
	ModeSimulated = "simulated"
)

type Config struct {
	SecretKey     string
	WebhookSecret string
	Mode          string
}

// Intent is the client-facing view of a created payment intent.
type Intent struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Simulated       bool   `json:"simulated,omitempty"`
}

// CreateIntentInput represents input for creating a payment intent
type CreateIntentInput struct {
	Amount   int64             `json:"amount"` // cents
	Currency string            `json:"currency,omitempty"`
	EventID  string            `json:"eventId,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ConfirmInput represents input for confirming a payment for a booking
type ConfirmInput struct {
	PaymentIntentID string `json:"paymentIntentId"`
	BookingID       string `json:"bookingId"`
}

// defaultAmountCents is charged when a paid event carries no amount in
// its price string.
const defaultAmountCents = 2500

var amountRe = regexp.MustCompile(`\$(\d+(?:\.\d{2})?)`)

// ParseAmountCents extracts the dollar amount embedded in a price
// display string like "Paid - $25". Strings without an amount fall back
// to the default charge.
func ParseAmountCents(price string) int64 {
	m := amountRe.FindStringSubmatch(price)
	if m == nil {
		return defaultAmountCents
	}
	dollars, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return defaultAmountCents
	}
	return int64(dollars * 100)
}

// ValidMode reports whether a configured mode is recognized.
func ValidMode(m string) bool {
	switch strings.ToLower(m) {
	case ModeTest, ModeLive, ModeSimulated:
		return true
	}
	return false
}
