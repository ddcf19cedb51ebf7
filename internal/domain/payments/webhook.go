package payments

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
)

// HandleWebhook processes incoming Stripe webhooks. Only
// payment_intent events matter here; everything else is acknowledged
// and ignored.
func (s *Service) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const MaxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error().Err(err).Msg("webhook: read body")
		http.Error(w, "Error reading request body", http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, s.config.WebhookSecret)
	if err != nil {
		log.Error().Err(err).Msg("webhook: signature verification failed")
		http.Error(w, "Webhook signature verification failed", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	log.Info().Str("type", string(event.Type)).Str("id", event.ID).Msg("webhook: received event")

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			log.Error().Err(err).Msg("webhook: parse payment intent")
			http.Error(w, "Error parsing webhook JSON", http.StatusBadRequest)
			return
		}
		if err := s.markBookingPaidByIntent(ctx, pi.ID, pi.Metadata); err != nil {
			// Acknowledge anyway so Stripe does not retry forever.
			log.Error().Err(err).Str("intent", pi.ID).Msg("webhook: mark booking paid")
		}

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			log.Error().Err(err).Msg("webhook: parse payment intent")
			http.Error(w, "Error parsing webhook JSON", http.StatusBadRequest)
			return
		}
		log.Warn().Str("intent", pi.ID).Msg("webhook: payment failed")

	default:
		log.Debug().Str("type", string(event.Type)).Msg("webhook: ignored event type")
	}

	w.WriteHeader(http.StatusOK)
}
