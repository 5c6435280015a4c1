package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type fileBackend struct {
	dir string
}

// NewFile keeps each document as <key>.json inside dir.
func NewFile(dir string) (*DocStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &DocStore{b: &fileBackend{dir: dir}}, nil
}

func (f *fileBackend) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *fileBackend) get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// put writes every document to a temp file first so a crash never leaves a
// truncated document behind.
func (f *fileBackend) put(_ context.Context, docs map[string][]byte) error {
	for key, data := range docs {
		tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
		if err != nil {
			return err
		}
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return err
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			return err
		}
		if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
			os.Remove(tmp.Name())
			return err
		}
	}
	return nil
}

func (f *fileBackend) close() error { return nil }
