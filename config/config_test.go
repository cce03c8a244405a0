package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8765, cfg.Server.Port)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, []string{"Image", "Font", "Media"}, cfg.Browser.BlockedResourceTypes)
	assert.Equal(t, 10*time.Second, cfg.Goodreads.MarkerTimeout)
	assert.Equal(t, 10, cfg.Goodreads.ScrollAttempts)
	assert.Equal(t, 3*time.Second, cfg.Goodreads.ScrollPause)
	assert.Equal(t, "https://www.addall.com/used/", cfg.Search.URL)
	assert.Equal(t, 10*time.Second, cfg.Search.WaitTimeout)
	assert.Empty(t, cfg.Auth.APIKeys)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOOKBUDDY_PORT", "9000")
	t.Setenv("BOOKBUDDY_HEADLESS", "false")
	t.Setenv("BOOKBUDDY_SCROLL_ATTEMPTS", "3")
	t.Setenv("BOOKBUDDY_SCROLL_PAUSE", "250ms")
	t.Setenv("BOOKBUDDY_API_KEYS", " a , ,b ")
	t.Setenv("BOOKBUDDY_RATE_RPS", "2.5")

	cfg := Load()

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 3, cfg.Goodreads.ScrollAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Goodreads.ScrollPause)
	assert.Equal(t, []string{"a", "b"}, cfg.Auth.APIKeys)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("BOOKBUDDY_PORT", "eighty")
	t.Setenv("BOOKBUDDY_MARKER_TIMEOUT", "soon")
	t.Setenv("BOOKBUDDY_OPEN_BROWSER", "maybe")

	cfg := Load()

	assert.Equal(t, 8765, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Goodreads.MarkerTimeout)
	assert.True(t, cfg.Server.OpenBrowser)
}
