package main

import (
	"os"
	"strconv"
	"time"
)

// config is assembled from environment variables, with development
// defaults for everything except secrets.
type config struct {
	Addr          string
	MongoURI      string
	MongoDatabase string

	StripeAPIKey        string
	StripeWebhookSecret string

	JWTSecret string
	JWTTTL    time.Duration

	S3Bucket string

	CheckoutSuccessURL string
	CheckoutCancelURL  string
	AllowOversell      bool
}

func loadConfig() config {
	return config{
		Addr:          envOr("STOREFRONT_ADDR", ":8080"),
		MongoURI:      envOr("STOREFRONT_MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: envOr("STOREFRONT_MONGO_DB", "storefront"),

		StripeAPIKey:        os.Getenv("STRIPE_API_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		JWTSecret: envOr("STOREFRONT_JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:    envDurationOr("STOREFRONT_JWT_TTL", 24*time.Hour),

		S3Bucket: os.Getenv("STOREFRONT_S3_BUCKET"),

		CheckoutSuccessURL: envOr("STOREFRONT_SUCCESS_URL", "http://localhost:3000/success"),
		CheckoutCancelURL:  envOr("STOREFRONT_CANCEL_URL", "http://localhost:3000/cancel"),
		AllowOversell:      envBoolOr("STOREFRONT_ALLOW_OVERSELL", false),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
