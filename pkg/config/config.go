package config

import (
	"os"
	"strconv"
)

// DefaultRestHours is the minimum rest gap between two same-day
// assignments unless overridden by configuration or a descanso_minimo
// rule.
const DefaultRestHours = 6.0

// Config holds all runtime configuration, sourced from environment
// variables (optionally loaded from .env by the entrypoints).
type Config struct {
	Port        string
	DatabaseURL string // Postgres DSN; empty means SQLite at DataPath
	DataPath    string

	AdminUsername string
	AdminPassword string

	// Ranking delegate. Empty API key disables the LLM delegate and
	// falls back to the deterministic rule scorer.
	OpenRouterAPIKey string
	OpenRouterModel  string

	// Outbound notification webhook. Empty URL disables delivery.
	WebhookURL    string
	WebhookSecret string

	RestHours float64
}

// FromEnv builds a Config from the process environment.
func FromEnv() Config {
	cfg := Config{
		Port:             getenv("PORT", "8000"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DataPath:         getenv("DATA_PATH", "camareros.db"),
		AdminUsername:    getenv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getenv("ADMIN_PASSWORD", "admin123"),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:  getenv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
		WebhookURL:       os.Getenv("NOTIFY_WEBHOOK_URL"),
		WebhookSecret:    os.Getenv("NOTIFY_WEBHOOK_SECRET"),
		RestHours:        DefaultRestHours,
	}

	if raw := os.Getenv("REST_HOURS"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			cfg.RestHours = v
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
