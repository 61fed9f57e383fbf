package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port    string
	AppName string

	// Upstream social API
	APIBaseURL string
	APIKey     string

	// Feed
	FeedPageSize int

	// Sessions. An empty DatabaseURL keeps sessions in memory.
	DatabaseURL   string
	SessionCookie string
	CookieSecure  bool

	// CORS for the /api/v1 JSON endpoints
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envOrDefault("PORT", "3001"),
		AppName: envOrDefault("APP_NAME", "Social Front"),

		APIBaseURL: envOrDefault("NOROFF_API_URL", "https://v2.api.noroff.dev"),
		APIKey:     os.Getenv("NOROFF_API_KEY"),

		FeedPageSize: envOrDefaultInt("FEED_PAGE_SIZE", 100),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionCookie: envOrDefault("SESSION_COOKIE", "social_session"),
		CookieSecure:  envOrDefaultBool("COOKIE_SECURE", false),

		AllowedOrigins: envOrDefaultList("ALLOWED_ORIGINS", []string{"http://localhost:3001"}),
	}
}

// UsesPostgres reports whether sessions and audit records go to Postgres.
func (c *Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envOrDefaultBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envOrDefaultList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
