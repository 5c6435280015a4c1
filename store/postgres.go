package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
	store_key  TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)
`

type postgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgres connects a small pgx pool and creates the kv_store table.
func NewPostgres(ctx context.Context, dsn string) (*DocStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 30 * time.Second
	cfg.MaxConnLifetime = 5 * time.Minute

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if _, err := p.Exec(ctx, postgresSchema); err != nil {
		p.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DocStore{b: &postgresBackend{pool: p}}, nil
}

func (p *postgresBackend) get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := p.pool.QueryRow(ctx,
		`SELECT value FROM kv_store WHERE store_key = $1`, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (p *postgresBackend) put(ctx context.Context, docs map[string][]byte) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		for key, data := range docs {
			_, err := tx.Exec(ctx, `
				INSERT INTO kv_store (store_key, value, updated_at) VALUES ($1, $2, NOW())
				ON CONFLICT (store_key) DO UPDATE SET
					value = EXCLUDED.value,
					updated_at = EXCLUDED.updated_at`,
				key, string(data),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *postgresBackend) close() error {
	p.pool.Close()
	return nil
}
