package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "CLAUDE_MODEL", "CLAUDE_MAX_TOKENS", "CLAUDE_TEMPERATURE",
		"PERSONA_MODE", "STORE_BACKEND", "BOT_RATE_WINDOW", "CORS_ALLOWED_ORIGINS",
		"APP_ENV", "VERCEL_ENV",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "claude-3-haiku-20240307", cfg.ClaudeModel)
	assert.Equal(t, 150, cfg.ClaudeMaxTokens)
	assert.InDelta(t, 0.8, cfg.ClaudeTemperature, 1e-9)
	assert.Equal(t, PersonaModeNone, cfg.PersonaMode)
	assert.Equal(t, BackendAuto, cfg.StoreBackend)
	assert.Equal(t, time.Minute, cfg.BotRateWindow)
	assert.Equal(t, []string{"*"}, cfg.CorsAllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CLAUDE_MAX_TOKENS", "200")
	t.Setenv("CLAUDE_TEMPERATURE", "1.0")
	t.Setenv("PERSONA_MODE", "Random-Persona")
	t.Setenv("BOT_RATE_WINDOW", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	assert.Equal(t, 200, cfg.ClaudeMaxTokens)
	assert.InDelta(t, 1.0, cfg.ClaudeTemperature, 1e-9)
	assert.Equal(t, PersonaModeRandom, cfg.PersonaMode)
	assert.Equal(t, 30*time.Second, cfg.BotRateWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsAllowedOrigins)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("CLAUDE_MAX_TOKENS", "lots")
	t.Setenv("BOT_RATE_WINDOW", "-5s")

	cfg := Load()
	assert.Equal(t, 150, cfg.ClaudeMaxTokens)
	assert.Equal(t, time.Minute, cfg.BotRateWindow)
}

func TestResolvedStoreBackend(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"auto local", Config{StoreBackend: BackendAuto}, BackendMemory},
		{"auto vercel production", Config{StoreBackend: BackendAuto, VercelEnv: "production"}, BackendEdgeConfig},
		{"auto app production", Config{StoreBackend: BackendAuto, AppEnv: "Production"}, BackendEdgeConfig},
		{"auto vercel preview", Config{StoreBackend: BackendAuto, VercelEnv: "preview"}, BackendMemory},
		{"explicit redis", Config{StoreBackend: BackendRedis, VercelEnv: "production"}, BackendRedis},
		{"empty", Config{}, BackendMemory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cfg.ResolvedStoreBackend())
		})
	}
}

func validConfig() Config {
	return Config{
		ClaudeAPIKey:        "key",
		TwitterAPIKey:       "a",
		TwitterAPISecret:    "b",
		TwitterAccessToken:  "c",
		TwitterAccessSecret: "d",
		PersonaMode:         PersonaModeNone,
		StoreBackend:        BackendMemory,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.ClaudeAPIKey = ""
	cfg.TwitterAccessSecret = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLAUDE_API_KEY")
	assert.Contains(t, err.Error(), "TWITTER_ACCESS_SECRET")

	cfg = validConfig()
	cfg.PersonaMode = "celebrity"
	assert.ErrorContains(t, cfg.Validate(), "PERSONA_MODE")

	cfg = validConfig()
	cfg.StoreBackend = BackendRedis
	assert.ErrorContains(t, cfg.Validate(), "REDIS_URL")

	cfg = validConfig()
	cfg.StoreBackend = BackendPostgres
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")

	cfg = validConfig()
	cfg.StoreBackend = BackendEdgeConfig
	cfg.EdgeConfig = "https://edge-config.vercel.com/ecfg_1?token=t"
	assert.ErrorContains(t, cfg.Validate(), "VERCEL_API_TOKEN")

	cfg = validConfig()
	cfg.StoreBackend = "sqlite"
	assert.ErrorContains(t, cfg.Validate(), "STORE_BACKEND")
}
