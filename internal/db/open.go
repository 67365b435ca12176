package db

import (
	"context"
	"fmt"

	"github.com/BorisDmv/tweetbot/internal/config"
)

// Open builds the backend selected by cfg. It is called once at startup.
func Open(ctx context.Context, cfg config.Config) (Backend, error) {
	switch name := cfg.ResolvedStoreBackend(); name {
	case config.BackendMemory:
		return NewMemoryBackend(), nil
	case config.BackendRedis:
		return NewRedisBackendFromURL(ctx, cfg.RedisURL, cfg.RedisKeyPrefix)
	case config.BackendPostgres:
		return NewPostgresBackend(ctx, cfg.DatabaseURL)
	case config.BackendEdgeConfig:
		return NewEdgeConfigBackend(EdgeConfigOptions{
			ConnectionString: cfg.EdgeConfig,
			APIToken:         cfg.VercelAPIToken,
			TeamID:           cfg.VercelTeamID,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", name)
	}
}
