package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ProjectID                    string
	Port                         string
	AllowedOrigins               []string
	StorageBucket                string
	SignedURLServiceAccountEmail string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeMode          string // "test", "live" or "simulated"

	PushRelayURL string

	// Reference point for radius filtering when the client does not
	// supply its own coordinates. Defaults to the Phoenix map center.
	DefaultCenterLat float64
	DefaultCenterLng float64
}

func Load() Config {
	projectID := getenv("FIREBASE_PROJECT_ID", "")
	if projectID == "" {
		projectID = getenv("GOOGLE_CLOUD_PROJECT", "")
	}

	port := getenv("PORT", "8080")
	origins := getenv("ALLOWED_ORIGINS", "http://localhost:3000")
	storageBucket := getenv("FIREBASE_STORAGE_BUCKET", "")
	if storageBucket == "" && projectID != "" {
		storageBucket = projectID + ".appspot.com"
	}

	allowed := []string{}
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			allowed = append(allowed, o)
		}
	}

	return Config{
		ProjectID:                    projectID,
		Port:                         port,
		AllowedOrigins:               allowed,
		StorageBucket:                storageBucket,
		SignedURLServiceAccountEmail: getenv("SIGNED_URL_SERVICE_ACCOUNT_EMAIL", ""),
		StripeSecretKey:              getenv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:          getenv("STRIPE_WEBHOOK_SECRET", ""),
		StripeMode:                   getenv("STRIPE_MODE", "test"),
		PushRelayURL:                 getenv("PUSH_RELAY_URL", "https://exp.host/--/api/v2/push/send"),
		DefaultCenterLat:             getenvFloat("DEFAULT_CENTER_LAT", 33.4484),
		DefaultCenterLng:             getenvFloat("DEFAULT_CENTER_LNG", -112.0740),
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
