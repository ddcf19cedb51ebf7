package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
)

// Pusher delivers notifications to devices over FCM and, for Expo
// clients, through the push relay endpoint. Both paths are best effort.
type Pusher struct {
	messaging *messaging.Client // nil when FCM is not configured
	relayURL  string
	http      *http.Client
	log       zerolog.Logger
}

func NewPusher(msg *messaging.Client, relayURL string, log zerolog.Logger) *Pusher {
	return &Pusher{
		messaging: msg,
		relayURL:  relayURL,
		http:      &http.Client{Timeout: 10 * time.Second},
		log:       log,
	}
}

func (p *Pusher) Push(ctx context.Context, t target, title, body string, data map[string]string) {
	if t.FCMToken != "" && p.messaging != nil {
		p.pushFCM(ctx, t.FCMToken, title, body, data)
	}
	if t.ExpoPushToken != "" && p.relayURL != "" {
		p.pushRelay(ctx, t.ExpoPushToken, title, body, data)
	}
}

func (p *Pusher) pushFCM(ctx context.Context, token, title, body string, data map[string]string) {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	id, err := p.messaging.Send(ctx, msg)
	if err != nil {
		p.log.Warn().Err(err).Msg("fcm push failed")
		return
	}
	p.log.Debug().Str("messageId", id).Msg("fcm push sent")
}

type relayMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

func (p *Pusher) pushRelay(ctx context.Context, token, title, body string, data map[string]string) {
	payload, err := json.Marshal(relayMessage{
		To:    token,
		Sound: "default",
		Title: title,
		Body:  body,
		Data:  data,
	})
	if err != nil {
		p.log.Warn().Err(err).Msg("relay push: marshal failed")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.relayURL, bytes.NewReader(payload))
	if err != nil {
		p.log.Warn().Err(err).Msg("relay push: build request failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		p.log.Warn().Err(err).Msg("relay push failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		p.log.Warn().Str("status", fmt.Sprintf("%d", resp.StatusCode)).Msg("relay push rejected")
		return
	}
	p.log.Debug().Msg("relay push sent")
}
