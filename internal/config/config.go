package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/mmuslimabdulj/goat-call/internal/domain"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Security
	AllowedOrigins []string

	// Rate Limiting
	RateLimitWS          rate.Limit
	RateLimitWSBurst     int
	RateLimitEvents      rate.Limit
	RateLimitEventsBurst int

	// Logging
	LogLevel string

	// WebSocket
	MaxMessageSize int64

	// Rooms
	MaxHistorySize  int           // 0 keeps every message
	RingTimeout     time.Duration // 0 lets a call ring forever
	RoomIdleTimeout time.Duration // 0 never evicts an empty room
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Port:                 "8080",
		Env:                  "development",
		AllowedOrigins:       []string{"http://localhost:8080", "http://localhost:5000"},
		RateLimitWS:          domain.DefaultRateLimitWS,
		RateLimitWSBurst:     domain.DefaultRateLimitWSBurst,
		RateLimitEvents:      domain.DefaultRateLimitEvents,
		RateLimitEventsBurst: domain.DefaultRateLimitEventsBurst,
		LogLevel:             "info", // Options: debug, info, warn, error, silent
		MaxMessageSize:       domain.MaxMessageSize,
		MaxHistorySize:       domain.MaxHistorySize,
		RingTimeout:          domain.RingTimeout,
		RoomIdleTimeout:      domain.RoomIdleTimeout,
	}
}

// LoadFromEnv loads configuration from the environment, after merging a .env file if present
func LoadFromEnv() *Config {
	// Missing .env is normal in production
	_ = godotenv.Load()

	return fromViper(newViper())
}

func newViper() *viper.Viper {
	def := DefaultConfig()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", def.Port)
	v.SetDefault("ENV", def.Env)
	v.SetDefault("ALLOWED_ORIGINS", strings.Join(def.AllowedOrigins, ","))
	v.SetDefault("LOG_LEVEL", def.LogLevel)
	v.SetDefault("RATE_LIMIT_WS", float64(def.RateLimitWS))
	v.SetDefault("RATE_LIMIT_WS_BURST", def.RateLimitWSBurst)
	v.SetDefault("RATE_LIMIT_EVENTS", float64(def.RateLimitEvents))
	v.SetDefault("RATE_LIMIT_EVENTS_BURST", def.RateLimitEventsBurst)
	v.SetDefault("MAX_MESSAGE_SIZE", def.MaxMessageSize)
	v.SetDefault("MAX_HISTORY_SIZE", def.MaxHistorySize)
	v.SetDefault("RING_TIMEOUT", def.RingTimeout.String())
	v.SetDefault("ROOM_IDLE_TIMEOUT", def.RoomIdleTimeout.String())

	return v
}

// fromViper maps resolved keys onto a Config, keeping defaults for invalid values
func fromViper(v *viper.Viper) *Config {
	cfg := DefaultConfig()

	// Server
	if port := strings.TrimSpace(v.GetString("PORT")); port != "" {
		cfg.Port = port
	}
	if env := strings.TrimSpace(v.GetString("ENV")); env != "" {
		cfg.Env = env
	}

	// Security
	if origins := parseOrigins(v.GetString("ALLOWED_ORIGINS")); len(origins) > 0 {
		cfg.AllowedOrigins = origins
	}

	// Rate Limiting
	if val := v.GetFloat64("RATE_LIMIT_WS"); val > 0 {
		cfg.RateLimitWS = rate.Limit(val)
	}
	if val := v.GetInt("RATE_LIMIT_WS_BURST"); val > 0 {
		cfg.RateLimitWSBurst = val
	}
	if val := v.GetFloat64("RATE_LIMIT_EVENTS"); val > 0 {
		cfg.RateLimitEvents = rate.Limit(val)
	}
	if val := v.GetInt("RATE_LIMIT_EVENTS_BURST"); val > 0 {
		cfg.RateLimitEventsBurst = val
	}

	// Logging
	if level := strings.TrimSpace(v.GetString("LOG_LEVEL")); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}

	// WebSocket
	if val := v.GetInt64("MAX_MESSAGE_SIZE"); val > 0 {
		cfg.MaxMessageSize = val
	}

	// Rooms
	if val := v.GetInt("MAX_HISTORY_SIZE"); val >= 0 {
		cfg.MaxHistorySize = val
	}
	if d, ok := parseDuration(v.GetString("RING_TIMEOUT")); ok {
		cfg.RingTimeout = d
	}
	if d, ok := parseDuration(v.GetString("ROOM_IDLE_TIMEOUT")); ok {
		cfg.RoomIdleTimeout = d
	}

	return cfg
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// parseOrigins parses comma-separated origins
func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// parseDuration accepts Go durations ("30s") and bare seconds ("30"); negatives are rejected
func parseDuration(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, d >= 0
	}
	if d, err := time.ParseDuration(s + "s"); err == nil {
		return d, d >= 0
	}
	return 0, false
}
