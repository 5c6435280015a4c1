package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rustyeddy/tradeguard/config"
)

type redisBackend struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis stores both documents as plain string keys "<prefix>:settings"
// and "<prefix>:state".
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*DocStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "tg"
	}
	return &DocStore{b: &redisBackend{rdb: rdb, prefix: prefix}}, nil
}

func (r *redisBackend) key(k string) string {
	return r.prefix + ":" + k
}

func (r *redisBackend) get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (r *redisBackend) put(ctx context.Context, docs map[string][]byte) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, data := range docs {
			pipe.Set(ctx, r.key(key), data, 0)
		}
		return nil
	})
	return err
}

func (r *redisBackend) close() error {
	return r.rdb.Close()
}
