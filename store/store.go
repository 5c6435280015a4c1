// Package store persists the calculator settings and live trading state.
//
// Every backend keeps two JSON documents, one under SettingsKey and one under
// StateKey, and writes both together on Save.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradeguard/config"
	"github.com/rustyeddy/tradeguard/stake"
)

const (
	SettingsKey = "settings"
	StateKey    = "state"
)

// ErrNotFound is returned by a backend when a document has never been saved.
var ErrNotFound = errors.New("store: not found")

// Store loads and saves settings and state. Load returns nil for a document
// that has not been saved yet.
type Store interface {
	Load(ctx context.Context) (*stake.Settings, *stake.State, error)
	Save(ctx context.Context, set stake.Settings, st stake.State) error
	Close() error
}

type backend interface {
	get(ctx context.Context, key string) ([]byte, error)
	put(ctx context.Context, docs map[string][]byte) error
	close() error
}

// DocStore implements Store on top of a key/value backend.
type DocStore struct {
	b backend
}

func (s *DocStore) Load(ctx context.Context) (*stake.Settings, *stake.State, error) {
	var set *stake.Settings
	var v stake.Settings
	ok, err := s.load(ctx, SettingsKey, &v)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		set = &v
	}

	var st *stake.State
	var w stake.State
	ok, err = s.load(ctx, StateKey, &w)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		st = &w
	}

	return set, st, nil
}

func (s *DocStore) load(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.b.get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return true, nil
}

func (s *DocStore) Save(ctx context.Context, set stake.Settings, st stake.State) error {
	sb, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("store: encode settings: %w", err)
	}
	tb, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}

	if err := s.b.put(ctx, map[string][]byte{SettingsKey: sb, StateKey: tb}); err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	return nil
}

func (s *DocStore) Close() error {
	return s.b.close()
}

// Open builds the backend selected by cfg.Type.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	var s *DocStore
	var err error

	switch cfg.Type {
	case "file":
		s, err = NewFile(cfg.Path)
	case "sqlite":
		s, err = NewSQLite(cfg.Path)
	case "mysql":
		s, err = NewMySQL(ctx, cfg.DSN)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DSN)
	case "redis":
		s, err = NewRedis(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown storage type: %q", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Type, err)
	}
	return s, nil
}

const connectTimeout = 5 * time.Second
