// Package config loads service settings from the environment.
//
// Values come from, in increasing priority: built-in defaults, a .env file in
// the working directory, process environment variables. Command-line flags in
// cmd/server override the result.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"

	"github.com/warp/leave-ledger/timeoff"
)

// MemoryDB selects the in-memory store instead of SQLite.
const MemoryDB = "memory"

// Config holds application configuration.
type Config struct {
	Port   int
	DBPath string

	CORSOrigins []string
	RateLimit   string

	LogLevel  string
	LogFormat string

	AllowClearApproved bool
	JanuaryRollover    timeoff.RolloverScope

	HolidayCacheSize int
	ShutdownTimeout  time.Duration
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_PATH", "leave.db")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LEDGER_ALLOW_CLEAR_APPROVED", false)
	v.SetDefault("AGGREGATE_JANUARY_ROLLOVER", string(timeoff.RolloverSingleEmployee))
	v.SetDefault("HOLIDAY_CACHE_SIZE", 16)
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")
	v.AutomaticEnv()

	cfg := &Config{
		Port:               v.GetInt("PORT"),
		DBPath:             v.GetString("DB_PATH"),
		CORSOrigins:        splitList(v.GetString("CORS_ORIGINS")),
		RateLimit:          v.GetString("RATE_LIMIT"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:          strings.ToLower(v.GetString("LOG_FORMAT")),
		AllowClearApproved: v.GetBool("LEDGER_ALLOW_CLEAR_APPROVED"),
		JanuaryRollover:    timeoff.RolloverScope(v.GetString("AGGREGATE_JANUARY_ROLLOVER")),
		HolidayCacheSize:   v.GetInt("HOLIDAY_CACHE_SIZE"),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH must not be empty"))
	}
	if _, err := limiter.NewRateFromFormatted(c.RateLimit); err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT %q: %w", c.RateLimit, err))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	if _, err := timeoff.ParseRolloverScope(string(c.JanuaryRollover)); err != nil {
		errs = append(errs, fmt.Errorf("AGGREGATE_JANUARY_ROLLOVER: %w", err))
	}
	if c.HolidayCacheSize <= 0 {
		errs = append(errs, fmt.Errorf("HOLIDAY_CACHE_SIZE must be positive, got %d", c.HolidayCacheSize))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// UseMemoryStore reports whether DB_PATH selects the in-memory store.
func (c *Config) UseMemoryStore() bool { return c.DBPath == MemoryDB }

// LedgerConfig is the state machine configuration handed to handlers.
func (c *Config) LedgerConfig() timeoff.LedgerConfig {
	return timeoff.LedgerConfig{AllowClearApproved: c.AllowClearApproved}
}

// SlogLevel maps LOG_LEVEL onto slog.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
