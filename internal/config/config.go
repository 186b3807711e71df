package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    slog.Level

	// DatabaseURL and RedisURL are optional; without them checkout attempts
	// and the shared cache stay in process.
	DatabaseURL string
	RedisURL    string

	API struct {
		URL     string
		Timeout time.Duration
	}

	SearchDebounce time.Duration
	EventsCacheTTL time.Duration
	Location       *time.Location

	Checkout struct {
		PollInterval time.Duration
		PollTimeout  time.Duration
	}

	Google struct {
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
}

func (c *Config) Production() bool {
	return c.Environment == "production"
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != ""
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}

	var err error
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}

	cfg.API.URL = strings.TrimRight(getEnv("API_URL", "http://localhost:8000"), "/")
	if err := checkURL("API_URL", cfg.API.URL); err != nil {
		return nil, err
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"API_TIMEOUT", "10s", &cfg.API.Timeout},
		{"SEARCH_DEBOUNCE", "500ms", &cfg.SearchDebounce},
		{"EVENTS_CACHE_TTL", "30s", &cfg.EventsCacheTTL},
		{"CHECKOUT_POLL_INTERVAL", "2s", &cfg.Checkout.PollInterval},
		{"CHECKOUT_POLL_TIMEOUT", "90s", &cfg.Checkout.PollTimeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("%s must be a positive duration", d.key)
		}
		*d.dst = v
	}

	tz := getEnv("TIMEZONE", "Africa/Nairobi")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", tz, err)
	}

	cfg.Google.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.Google.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	cfg.Google.RedirectURL = getEnv("GOOGLE_REDIRECT_URL", "http://localhost:"+cfg.ServerPort+"/auth/google/callback")
	if cfg.GoogleEnabled() {
		if err := checkURL("GOOGLE_REDIRECT_URL", cfg.Google.RedirectURL); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func checkURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL", key)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}
	return l, nil
}
