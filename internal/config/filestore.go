package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// FileStore is a Store backed by a single JSON object on disk, the same
// shape the wallet keeps its own settings in. Writes persist
// immediately.
type FileStore struct {
	path string

	mu     sync.Mutex
	values map[string]any
}

// OpenFileStore loads the store at path, creating an empty one if the
// file does not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	store := &FileStore{
		path:   path,
		values: make(map[string]any),
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, &store.values); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return store, nil
}

func (f *FileStore) Get(key string, fallback any) any {
	f.mu.Lock()
	defer f.mu.Unlock()

	value, ok := f.values[key]
	if !ok {
		return fallback
	}

	return value
}

func (f *FileStore) SetKey(key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[key] = value

	return f.flush()
}

// flush writes the full map back to disk. Caller holds the lock.
// Settings may include FTP credentials, hence the restrictive mode.
func (f *FileStore) flush() error {
	raw, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", f.path, err)
	}

	return nil
}
