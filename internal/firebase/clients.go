package firebase

import (
	"context"
	"fmt"
	"os"
	"sync"

	"livactiv/backend/internal/config"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Clients bundles the Firebase + GCP clients shared by the whole process.
type Clients struct {
	App       *firebase.App
	Auth      *auth.Client
	Firestore *firestore.Client
	Storage   *storage.Client
	Messaging *messaging.Client

	ProjectID string
	Bucket    string
}

var (
	initOnce    sync.Once
	sharedInit  *Clients
	sharedError error
)

// NewClients builds the client bundle. Credentials come from
// GOOGLE_APPLICATION_CREDENTIALS (file path) or
// FIREBASE_SERVICE_ACCOUNT_JSON (raw json); on GCP the application
// default credentials are used automatically.
func NewClients(ctx context.Context, cfg config.Config) (*Clients, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("missing FIREBASE_PROJECT_ID or GOOGLE_CLOUD_PROJECT")
	}

	var opts []option.ClientOption
	if cred := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); cred != "" {
		opts = append(opts, option.WithCredentialsFile(cred))
	} else if raw := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); raw != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(raw)))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, err
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}

	fs, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, err
	}

	st, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	msg, _ := app.Messaging(ctx) // optional; push degrades to the relay

	return &Clients{
		App:       app,
		Auth:      authClient,
		Firestore: fs,
		Storage:   st,
		Messaging: msg,
		ProjectID: cfg.ProjectID,
		Bucket:    cfg.StorageBucket,
	}, nil
}

// Shared returns the process-wide client bundle, constructing it on first
// use. Callers still receive it as an explicit dependency; this only
// guards against double initialization.
func Shared(ctx context.Context, cfg config.Config) (*Clients, error) {
	initOnce.Do(func() {
		sharedInit, sharedError = NewClients(ctx, cfg)
	})
	return sharedInit, sharedError
}

func (c *Clients) Close() {
	if c == nil || c.Firestore == nil {
		return
	}
	_ = c.Firestore.Close()
}
