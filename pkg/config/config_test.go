package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "NOROFF_API_URL", "NOROFF_API_KEY", "FEED_PAGE_SIZE", "DATABASE_URL", "COOKIE_SECURE", "ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "https://v2.api.noroff.dev", cfg.APIBaseURL)
	assert.Equal(t, 100, cfg.FeedPageSize)
	assert.False(t, cfg.UsesPostgres())
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, []string{"http://localhost:3001"}, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("NOROFF_API_KEY", "key-123")
	t.Setenv("FEED_PAGE_SIZE", "25")
	t.Setenv("DATABASE_URL", "postgres://x@localhost/social")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "key-123", cfg.APIKey)
	assert.Equal(t, 25, cfg.FeedPageSize)
	assert.True(t, cfg.UsesPostgres())
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("FEED_PAGE_SIZE", "-3")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := Load()

	assert.Equal(t, 100, cfg.FeedPageSize)
	assert.False(t, cfg.CookieSecure)
}
