package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted in STORE_BACKEND.
const (
	BackendAuto       = "auto"
	BackendMemory     = "memory"
	BackendRedis      = "redis"
	BackendPostgres   = "postgres"
	BackendEdgeConfig = "edgeconfig"
)

// Persona modes accepted in PERSONA_MODE.
const (
	PersonaModeNone   = "none"
	PersonaModeRandom = "random-persona"
)

type Config struct {
	Port               string
	LogLevel           string
	CorsAllowedOrigins []string

	ClaudeAPIKey      string
	ClaudeAPIURL      string
	ClaudeModel       string
	ClaudeMaxTokens   int
	ClaudeTemperature float64
	PersonaMode       string
	AttributionLabel  string

	TwitterAPIKey       string
	TwitterAPISecret    string
	TwitterAccessToken  string
	TwitterAccessSecret string
	TwitterAPIURL       string

	StoreBackend   string
	AppEnv         string
	VercelEnv      string
	RedisURL       string
	RedisKeyPrefix string
	DatabaseURL    string
	EdgeConfig     string
	VercelAPIToken string
	VercelTeamID   string

	BotRateLimit  int
	BotRateWindow time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		ClaudeAPIKey:      getEnv("CLAUDE_API_KEY", ""),
		ClaudeAPIURL:      getEnv("CLAUDE_API_URL", "https://api.anthropic.com"),
		ClaudeModel:       getEnv("CLAUDE_MODEL", "claude-3-haiku-20240307"),
		ClaudeMaxTokens:   getEnvInt("CLAUDE_MAX_TOKENS", 150),
		ClaudeTemperature: getEnvFloat("CLAUDE_TEMPERATURE", 0.8),
		PersonaMode:       strings.ToLower(getEnv("PERSONA_MODE", PersonaModeNone)),
		AttributionLabel:  getEnv("ATTRIBUTION_LABEL", "AI being AI"),

		TwitterAPIKey:       getEnv("TWITTER_API_KEY", ""),
		TwitterAPISecret:    getEnv("TWITTER_API_SECRET", ""),
		TwitterAccessToken:  getEnv("TWITTER_ACCESS_TOKEN", ""),
		TwitterAccessSecret: getEnv("TWITTER_ACCESS_SECRET", ""),
		TwitterAPIURL:       getEnv("TWITTER_API_URL", "https://api.twitter.com"),

		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", BackendAuto)),
		AppEnv:         getEnv("APP_ENV", ""),
		VercelEnv:      getEnv("VERCEL_ENV", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "tweetbot:"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		EdgeConfig:     getEnv("EDGE_CONFIG", ""),
		VercelAPIToken: getEnv("VERCEL_API_TOKEN", ""),
		VercelTeamID:   getEnv("VERCEL_TEAM_ID", ""),

		BotRateLimit:  getEnvInt("BOT_RATE_LIMIT", 30),
		BotRateWindow: getEnvDuration("BOT_RATE_WINDOW", time.Minute),
	}
}

// Production reports whether a managed-platform production indicator is set.
func (c Config) Production() bool {
	return strings.EqualFold(c.VercelEnv, "production") || strings.EqualFold(c.AppEnv, "production")
}

// ResolvedStoreBackend turns "auto" into a concrete backend name.
func (c Config) ResolvedStoreBackend() string {
	if c.StoreBackend != "" && c.StoreBackend != BackendAuto {
		return c.StoreBackend
	}
	if c.Production() {
		return BackendEdgeConfig
	}
	return BackendMemory
}

// Validate reports every missing or malformed setting needed to serve.
func (c Config) Validate() error {
	var errs []error
	if c.ClaudeAPIKey == "" {
		errs = append(errs, errors.New("CLAUDE_API_KEY is required"))
	}
	for key, value := range map[string]string{
		"TWITTER_API_KEY":       c.TwitterAPIKey,
		"TWITTER_API_SECRET":    c.TwitterAPISecret,
		"TWITTER_ACCESS_TOKEN":  c.TwitterAccessToken,
		"TWITTER_ACCESS_SECRET": c.TwitterAccessSecret,
	} {
		if value == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
	}
	switch c.PersonaMode {
	case PersonaModeNone, PersonaModeRandom:
	default:
		errs = append(errs, fmt.Errorf("unknown PERSONA_MODE %q", c.PersonaMode))
	}
	switch c.ResolvedStoreBackend() {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis store"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case BackendEdgeConfig:
		if c.EdgeConfig == "" {
			errs = append(errs, errors.New("EDGE_CONFIG is required for the edgeconfig store"))
		}
		if c.VercelAPIToken == "" {
			errs = append(errs, errors.New("VERCEL_API_TOKEN is required for the edgeconfig store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	parsed, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	parsed, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
