package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/paymentintent"
)

type Service struct {
	fs     *firestore.Client
	config Config
}

func NewService(fs *firestore.Client, cfg Config) *Service {
	if cfg.SecretKey != "" {
		stripe.Key = cfg.SecretKey
	}
	return &Service{fs: fs, config: cfg}
}

func (s *Service) simulated() bool {
	return s.config.Mode == ModeSimulated || s.config.SecretKey == ""
}

// CreateIntent creates a payment intent for a paid booking. Without a
// configured secret key the intent is simulated locally, which keeps
// the booking flow working in development.
func (s *Service) CreateIntent(ctx context.Context, uid string, in CreateIntentInput) (*Intent, error) {
	if in.Amount <= 0 && in.EventID != "" && s.fs != nil {
		// No explicit amount: derive it from the event's price string.
		doc, err := s.fs.Collection("events").Doc(in.EventID).Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: event not found", ErrNotFound)
		}
		price, _ := doc.Data()["price"].(string)
		in.Amount = ParseAmountCents(price)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrBadRequest)
	}

	currency := strings.ToLower(in.Currency)
	if currency == "" {
		currency = "usd"
	}

	meta := map[string]string{
		"userUid": uid,
		"type":    "event_booking",
	}
	if in.EventID != "" {
		meta["eventId"] = in.EventID
	}
	for k, v := range in.Metadata {
		meta[k] = v
	}

	if s.simulated() {
		id := "pi_sim_" + uuid.NewString()
		return &Intent{
			PaymentIntentID: id,
			ClientSecret:    id + "_secret_" + uuid.NewString(),
			Amount:          in.Amount,
			Currency:        currency,
			Simulated:       true,
		}, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.Amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range meta {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &Intent{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		Amount:          in.Amount,
		Currency:        currency,
	}, nil
}

// ConfirmForBooking records a completed payment against a booking.
func (s *Service) ConfirmForBooking(ctx context.Context, uid string, in ConfirmInput) error {
	if in.PaymentIntentID == "" || in.BookingID == "" {
		return fmt.Errorf("%w: paymentIntentId and bookingId are required", ErrBadRequest)
	}

	ref := s.fs.Collection("bookings").Doc(in.BookingID)
	doc, err := ref.Get(ctx)
	if err != nil {
		return fmt.Errorf("%w: booking not found", ErrNotFound)
	}

	owner, _ := doc.Data()["userId"].(string)
	if owner != uid {
		return fmt.Errorf("%w: booking belongs to another user", ErrBadRequest)
	}

	_, err = ref.Set(ctx, map[string]interface{}{
		"paid":            true,
		"paymentIntentId": in.PaymentIntentID,
		"updatedAt":       time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to confirm payment: %w", err)
	}
	return nil
}

// markBookingPaidByIntent resolves a booking from a payment intent and
// marks it paid. Used by the webhook, where only the intent is known.
func (s *Service) markBookingPaidByIntent(ctx context.Context, intentID string, meta map[string]string) error {
	now := time.Now().UTC()

	if bookingID := meta["bookingId"]; bookingID != "" {
		_, err := s.fs.Collection("bookings").Doc(bookingID).Set(ctx, map[string]interface{}{
			"paid":            true,
			"paymentIntentId": intentID,
			"updatedAt":       now,
		}, firestore.MergeAll)
		return err
	}

	iter := s.fs.Collection("bookings").
		Where("paymentIntentId", "==", intentID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		return fmt.Errorf("%w: no booking for intent %s", ErrNotFound, intentID)
	}

	_, err = doc.Ref.Set(ctx, map[string]interface{}{
		"paid":      true,
		"updatedAt": now,
	}, firestore.MergeAll)
	return err
}
