package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rustyeddy/tradeguard/config"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// These tests talk to real servers and only run when pointed at one.

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TRADEGUARD_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TRADEGUARD_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	prefix := "tg-test-" + time.Now().Format("150405.000000")
	s, err := NewRedis(ctx, config.RedisConfig{Addr: addr, Prefix: prefix})
	require.NoError(t, err)
	defer func() {
		rb := s.b.(*redisBackend)
		rb.rdb.Del(ctx, rb.key(SettingsKey), rb.key(StateKey))
		s.Close()
	}()

	assertRoundTrip(t, s)
}

func TestMySQLStore(t *testing.T) {
	dsn := os.Getenv("TRADEGUARD_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TRADEGUARD_TEST_MYSQL_DSN not set")
	}

	ctx := context.Background()
	s, err := NewMySQL(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.b.(*sqlBackend).db.ExecContext(ctx, `DELETE FROM kv_store`)
	require.NoError(t, err)

	assertRoundTrip(t, s)
}

func TestPostgresStore(t *testing.T) {
	if os.Getenv("TRADEGUARD_TEST_DOCKER") == "" {
		t.Skip("TRADEGUARD_TEST_DOCKER not set")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("tradeguard"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewPostgres(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	assertRoundTrip(t, s)
}
