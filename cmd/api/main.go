package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"livactiv/backend/internal/config"
	"livactiv/backend/internal/domain/booking"
	"livactiv/backend/internal/domain/chat"
	"livactiv/backend/internal/domain/event"
	"livactiv/backend/internal/domain/notifications"
	"livactiv/backend/internal/domain/payments"
	"livactiv/backend/internal/domain/profile"
	"livactiv/backend/internal/firebase"
	"livactiv/backend/internal/handlers"
	apihttp "livactiv/backend/internal/http"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx := context.Background()
	cfg := config.Load()

	clients, err := firebase.Shared(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase init failed")
	}
	defer clients.Close()

	// Repositories
	eventRepo := event.NewRepo(clients.Firestore)
	bookingRepo := booking.NewRepo(clients.Firestore)

	// Services
	eventSvc := event.NewService(eventRepo, clients.Firestore)
	bookingSvc := booking.NewService(bookingRepo, eventRepo, clients.Firestore)
	profileSvc := profile.NewService(clients.Firestore, clients.Auth)
	chatSvc := chat.NewService(clients.Firestore, eventRepo)

	pusher := notifications.NewPusher(clients.Messaging, cfg.PushRelayURL, log.Logger)
	notificationsSvc := notifications.NewService(clients.Firestore, pusher)
	bookingSvc.SetNotificationsService(notificationsSvc)

	paymentsSvc := payments.NewService(clients.Firestore, payments.Config{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		Mode:          cfg.StripeMode,
	})
	if cfg.StripeSecretKey == "" {
		log.Info().Msg("STRIPE_SECRET_KEY not set, payments run in simulated mode")
	}

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:              cfg,
		AuthClient:       clients.Auth,
		EventSvc:         eventSvc,
		EventRepo:        eventRepo,
		BookingSvc:       bookingSvc,
		ProfileSvc:       profileSvc,
		ChatSvc:          chatSvc,
		NotificationsSvc: notificationsSvc,
		PaymentsSvc:      paymentsSvc,
		Uploads:          handlers.NewUploads(cfg, clients),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Port).Str("project", cfg.ProjectID).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("shutting down")
	_ = srv.Shutdown(ctxShutdown)
}
