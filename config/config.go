package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Goodreads GoodreadsConfig
	Search    SearchConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the local HTTP server that hosts the form.
type ServerConfig struct {
	Host string // default: "127.0.0.1"
	Port int    // default: 8765
	Mode string // "debug", "release", "test"; default: "release"

	// OpenBrowser opens the form in the system browser once the server listens.
	OpenBrowser bool // default: true
}

// BrowserConfig controls every headless Chromium session.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is an optional proxy URL for both upstream sites.
	Proxy string

	// Stealth injects the go-rod/stealth evasions before navigation.
	Stealth bool // default: false

	// WindowSize is passed to Chrome as --window-size.
	WindowSize string // default: "1920,1080"

	// AcceptLanguage is sent as an extra request header.
	AcceptLanguage string // default: "en-US,en;q=0.9"

	// BlockedResourceTypes lists resource types to block on the bookshelf page.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string
}

// GoodreadsConfig controls the bookshelf scrape.
type GoodreadsConfig struct {
	// MarkerTimeout caps the wait for the "my rating" column header.
	MarkerTimeout time.Duration // default: 10s

	// ScrollAttempts is how many times the page is scrolled to the bottom.
	ScrollAttempts int // default: 10

	// ScrollPause is the sleep after each scroll.
	ScrollPause time.Duration // default: 3s

	// Timeout bounds the whole scrape.
	Timeout time.Duration // default: 2m
}

// SearchConfig controls the price search on the aggregator.
type SearchConfig struct {
	// URL is the aggregator's used-book search page.
	URL string // default: "https://www.addall.com/used/"

	// WaitTimeout caps each element wait on the aggregator.
	WaitTimeout time.Duration // default: 10s

	// Timeout bounds the whole search.
	Timeout time.Duration // default: 1m
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// APIKeys is the list of valid API keys. Empty means open access.
	APIKeys []string
}

// RateLimitConfig controls per-identity rate limiting of form submissions.
type RateLimitConfig struct {
	RequestsPerSecond float64 // default: 1
	Burst             int     // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        envOr("BOOKBUDDY_HOST", "127.0.0.1"),
			Port:        envIntOr("BOOKBUDDY_PORT", 8765),
			Mode:        envOr("BOOKBUDDY_MODE", "release"),
			OpenBrowser: envBoolOr("BOOKBUDDY_OPEN_BROWSER", true),
		},
		Browser: BrowserConfig{
			Headless:       envBoolOr("BOOKBUDDY_HEADLESS", true),
			NoSandbox:      envBoolOr("BOOKBUDDY_NO_SANDBOX", false),
			BrowserBin:     os.Getenv("BOOKBUDDY_BROWSER_BIN"),
			Proxy:          os.Getenv("BOOKBUDDY_PROXY"),
			Stealth:        envBoolOr("BOOKBUDDY_STEALTH", false),
			WindowSize:     envOr("BOOKBUDDY_WINDOW_SIZE", "1920,1080"),
			AcceptLanguage: envOr("BOOKBUDDY_ACCEPT_LANGUAGE", "en-US,en;q=0.9"),
			BlockedResourceTypes: envSliceOr("BOOKBUDDY_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
		},
		Goodreads: GoodreadsConfig{
			MarkerTimeout:  envDurationOr("BOOKBUDDY_MARKER_TIMEOUT", 10*time.Second),
			ScrollAttempts: envIntOr("BOOKBUDDY_SCROLL_ATTEMPTS", 10),
			ScrollPause:    envDurationOr("BOOKBUDDY_SCROLL_PAUSE", 3*time.Second),
			Timeout:        envDurationOr("BOOKBUDDY_SHELF_TIMEOUT", 2*time.Minute),
		},
		Search: SearchConfig{
			URL:         envOr("BOOKBUDDY_SEARCH_URL", "https://www.addall.com/used/"),
			WaitTimeout: envDurationOr("BOOKBUDDY_SEARCH_WAIT", 10*time.Second),
			Timeout:     envDurationOr("BOOKBUDDY_SEARCH_TIMEOUT", time.Minute),
		},
		Auth: AuthConfig{
			APIKeys: envSliceOr("BOOKBUDDY_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("BOOKBUDDY_RATE_RPS", 1.0),
			Burst:             envIntOr("BOOKBUDDY_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  envOr("BOOKBUDDY_LOG_LEVEL", "info"),
			Format: envOr("BOOKBUDDY_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
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

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
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

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
