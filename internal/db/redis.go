package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const defaultRedisTimeout = 5 * time.Second

// RedisBackend stores values as plain redis strings under a key prefix.
type RedisBackend struct {
	client goredis.UniversalClient
	prefix string
}

func NewRedisBackend(client goredis.UniversalClient, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

// NewRedisBackendFromURL dials and pings a single-node redis.
func NewRedisBackendFromURL(ctx context.Context, redisURL, prefix string) (*RedisBackend, error) {
	if redisURL == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = defaultRedisTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = defaultRedisTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = defaultRedisTimeout
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisBackend(client, prefix), nil
}

func (r *RedisBackend) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

func (r *RedisBackend) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisBackend) Name() string { return "redis" }

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
