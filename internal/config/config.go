package config

import "os"

// Config holds every runtime setting the API server needs. Values come from
// the environment (a .env file is loaded by main before this runs).
type Config struct {
	DatabaseURL string
	Port        string
	LogLevel    string

	// Paystack credentials. SecretKey signs webhook payloads and
	// authenticates API calls; it must be set in production.
	PaystackSecretKey string
	PaystackBaseURL   string

	// Admin API auth.
	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string // bcrypt hash
}

// Load reads the configuration from environment variables, applying defaults
// where a setting is optional.
func Load() Config {
	return Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Port:              envOr("APP_PORT", "8080"),
		LogLevel:          envOr("LOG_LEVEL", "info"),
		PaystackSecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:   envOr("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
