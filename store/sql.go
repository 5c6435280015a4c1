package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
	store_key  TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
	store_key  VARCHAR(64) NOT NULL PRIMARY KEY,
	value      LONGTEXT NOT NULL,
	updated_at DATETIME(6) NOT NULL
)
`

// sqlBackend serves both SQLite and MySQL; only the upsert differs.
type sqlBackend struct {
	db     *sql.DB
	upsert string
}

// NewSQLite opens (or creates) the database at path.
func NewSQLite(path string) (*DocStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}

	return &DocStore{b: &sqlBackend{
		db: db,
		upsert: `
			INSERT INTO kv_store (store_key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(store_key) DO UPDATE SET
				value = excluded.value,
				updated_at = excluded.updated_at`,
	}}, nil
}

// NewMySQL connects with a go-sql-driver DSN such as
// "user:pass@tcp(localhost:3306)/tradeguard".
func NewMySQL(ctx context.Context, dsn string) (*DocStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}
	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(time.Minute)

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, mysqlSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql schema: %w", err)
	}

	return &DocStore{b: &sqlBackend{
		db: db,
		upsert: `
			INSERT INTO kv_store (store_key, value, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE
				value = VALUES(value),
				updated_at = VALUES(updated_at)`,
	}}, nil
}

func (s *sqlBackend) get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv_store WHERE store_key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s *sqlBackend) put(ctx context.Context, docs map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for key, data := range docs {
		if _, err := tx.ExecContext(ctx, s.upsert, key, string(data), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqlBackend) close() error {
	return s.db.Close()
}
