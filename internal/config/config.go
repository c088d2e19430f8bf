package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/octobees/portfolio-importer/api/internal/gateway"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// AgentQLConfig holds the extraction API settings.
type AgentQLConfig struct {
	APIKey             string
	BaseURL            string
	Timeout            time.Duration
	Mode               string
	ScrollEnabled      bool
	WaitTime           int
	ScreenshotEnabled  bool
	BreakerMaxFailures uint32
}

// LoggingConfig controls log level and optional file rotation.
type LoggingConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL        string
	DatabaseMaxConns   int32
	Port               string
	AutoMigrate        bool
	DefaultPhoneRegion string
	RateLimitImport    RateLimitConfig
	AgentQL            AgentQLConfig
	Logging            LoggingConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DatabaseMaxConns:   int32(parseInt(getEnv("DB_MAX_CONNS", "10"), 10)),
		Port:               getEnv("PORT", "8080"),
		AutoMigrate:        parseBool(getEnv("DB_AUTO_MIGRATE", "true"), true),
		DefaultPhoneRegion: strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "ID")),
		AgentQL: AgentQLConfig{
			APIKey:             os.Getenv("AGENTQL_API_KEY"),
			BaseURL:            getEnv("AGENTQL_BASE_URL", "https://api.agentql.com/v1"),
			Timeout:            parseSeconds(getEnv("AGENTQL_TIMEOUT", "60"), 60*time.Second),
			Mode:               strings.ToLower(getEnv("AGENTQL_MODE", gateway.ModeFast)),
			ScrollEnabled:      parseBool(getEnv("AGENTQL_SCROLL_ENABLED", "true"), true),
			WaitTime:           parseInt(getEnv("AGENTQL_WAIT_TIME", "3"), 3),
			ScreenshotEnabled:  parseBool(getEnv("AGENTQL_SCREENSHOT_ENABLED", "false"), false),
			BreakerMaxFailures: uint32(parseInt(getEnv("AGENTQL_BREAKER_MAX_FAILURES", "5"), 5)),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Dir:        os.Getenv("LOG_DIR"),
			MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "50"), 50),
			MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "5"), 5),
			MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "14"), 14),
			Compress:   parseBool(getEnv("LOG_COMPRESS", "true"), true),
		},
	}

	if cfg.AgentQL.Mode != gateway.ModeFast && cfg.AgentQL.Mode != gateway.ModeStandard {
		return nil, fmt.Errorf("invalid AGENTQL_MODE value: %q", cfg.AgentQL.Mode)
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_IMPORT", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_IMPORT value: %w", err)
	}
	cfg.RateLimitImport = rl

	return cfg, nil
}

// GatewayConfig returns the settings for the AgentQL client.
func (c *Config) GatewayConfig() gateway.Config {
	return gateway.Config{
		BaseURL:            c.AgentQL.BaseURL,
		APIKey:             c.AgentQL.APIKey,
		Timeout:            c.AgentQL.Timeout,
		BreakerMaxFailures: c.AgentQL.BreakerMaxFailures,
	}
}

// ExtractionParams returns the per-request options sent with every extraction.
func (c *Config) ExtractionParams() gateway.Params {
	return gateway.Params{
		WaitFor:                 c.AgentQL.WaitTime,
		IsScrollToBottomEnabled: c.AgentQL.ScrollEnabled,
		Mode:                    c.AgentQL.Mode,
		IsScreenshotEnabled:     c.AgentQL.ScreenshotEnabled,
	}
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

// parseSeconds accepts a plain number of seconds or a Go duration string.
func parseSeconds(input string, fallback time.Duration) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(input)); err == nil {
		if secs <= 0 {
			return fallback
		}
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(input string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func parseBool(input string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(input))
	if err != nil {
		return fallback
	}
	return v
}
