package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxQuerier is the subset of *pgxpool.Pool the backend uses.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

const keyValueTableSQL = `CREATE TABLE IF NOT EXISTS key_value_store (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

type PostgresBackend struct {
	pool pgxQuerier
}

// NewPostgresBackend connects, pings and makes sure the table exists.
func NewPostgresBackend(ctx context.Context, databaseURL string) (*PostgresBackend, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	backend := &PostgresBackend{pool: pool}
	if err := backend.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return backend, nil
}

func (p *PostgresBackend) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, keyValueTableSQL); err != nil {
		return fmt.Errorf("create key_value_store table: %w", err)
	}
	return nil
}

func (p *PostgresBackend) Get(ctx context.Context, key string) (string, error) {
	if p.pool == nil {
		return "", errors.New("db not initialized")
	}
	const query = `SELECT value FROM key_value_store WHERE key = $1`
	var value string
	if err := p.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get key %s: %w", key, err)
	}
	return value, nil
}

func (p *PostgresBackend) Set(ctx context.Context, key, value string) error {
	if p.pool == nil {
		return errors.New("db not initialized")
	}
	const query = `
		INSERT INTO key_value_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := p.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set key %s: %w", key, err)
	}
	return nil
}

func (p *PostgresBackend) Name() string { return "postgres" }

func (p *PostgresBackend) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
