package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	DBURL      string
	AppURL     string
	CORSOrigin string
	GinMode    string

	SessionSecret string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripePremiumPrice  string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	AdminName     string
	AdminEmail    string
	AdminPassword string

	LogLevel  string
	LogFormat string
}

// GoogleEnabled reports whether all three Google OAuth settings are present.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func LoadEnv() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	return Config{
		Port:       getEnv("PORT", "8080"),
		DBURL:      mustEnv("DB_URL"),
		AppURL:     getEnv("APP_URL", "http://localhost:8080"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
		GinMode:    getEnv("GIN_MODE", ""),

		SessionSecret: mustEnv("SESSION_SECRET"),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripePremiumPrice:  getEnv("STRIPE_PREMIUM_PRICE_ID", ""),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),

		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
