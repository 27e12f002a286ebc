// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubUsername  string
	GitHubToken     string
	ListenAddr      string
	DBPath          string
	AutoLoadDelay   time.Duration
	RetryUnit       time.Duration
	RequestTimeout  time.Duration
	RefreshSchedule string
	ShowProjects    bool
	ProbeAddr       string
	LogLevel        slog.Level
}

// HasGitHubToken returns true when an API token is configured. Without one the
// feed still works against the lower unauthenticated rate limit.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment win.
//
// PORTFOLIO_GITHUB_USERNAME is required. Optional variables with defaults:
// PORTFOLIO_GITHUB_TOKEN (none), PORTFOLIO_LISTEN_ADDR (127.0.0.1:8080),
// PORTFOLIO_DB_PATH (portfolio.db), PORTFOLIO_AUTOLOAD_DELAY (500ms),
// PORTFOLIO_RETRY_UNIT (1s), PORTFOLIO_REQUEST_TIMEOUT (15s),
// PORTFOLIO_REFRESH_SCHEDULE (disabled), PORTFOLIO_SHOW_PROJECTS (true),
// PORTFOLIO_PROBE_ADDR (api.github.com:443), PORTFOLIO_LOG_LEVEL (info).
func Load() (*Config, error) {
	return LoadFor("")
}

// LoadFor is Load with username taking precedence over
// PORTFOLIO_GITHUB_USERNAME when non-empty.
func LoadFor(username string) (*Config, error) {
	_ = godotenv.Load()

	username = strings.TrimSpace(username)
	if username == "" {
		username = strings.TrimSpace(os.Getenv("PORTFOLIO_GITHUB_USERNAME"))
	}
	if username == "" {
		return nil, fmt.Errorf("PORTFOLIO_GITHUB_USERNAME is required")
	}

	autoLoadDelay, err := durationEnv("PORTFOLIO_AUTOLOAD_DELAY", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	retryUnit, err := durationEnv("PORTFOLIO_RETRY_UNIT", time.Second)
	if err != nil {
		return nil, err
	}

	requestTimeout, err := durationEnv("PORTFOLIO_REQUEST_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	showProjects := true
	if v, ok := os.LookupEnv("PORTFOLIO_SHOW_PROJECTS"); ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("PORTFOLIO_SHOW_PROJECTS has invalid boolean %q: %w", v, err)
		}
		showProjects = parsed
	}

	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("PORTFOLIO_LOG_LEVEL"); ok && v != "" {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("PORTFOLIO_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return &Config{
		GitHubUsername:  username,
		GitHubToken:     os.Getenv("PORTFOLIO_GITHUB_TOKEN"),
		ListenAddr:      stringEnv("PORTFOLIO_LISTEN_ADDR", "127.0.0.1:8080"),
		DBPath:          stringEnv("PORTFOLIO_DB_PATH", "portfolio.db"),
		AutoLoadDelay:   autoLoadDelay,
		RetryUnit:       retryUnit,
		RequestTimeout:  requestTimeout,
		RefreshSchedule: strings.TrimSpace(os.Getenv("PORTFOLIO_REFRESH_SCHEDULE")),
		ShowProjects:    showProjects,
		ProbeAddr:       stringEnv("PORTFOLIO_PROBE_ADDR", "api.github.com:443"),
		LogLevel:        logLevel,
	}, nil
}

func stringEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", key, v)
	}
	return parsed, nil
}
