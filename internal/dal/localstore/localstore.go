package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// ErrKeyNotFound is returned when a key has never been stored.
var ErrKeyNotFound = errors.New("key not found")

// Store is a namespaced JSON key-value store backed by a single file.
// It is the process-local equivalent of the browser's persisted
// storage: small JSON-encoded snapshots under fixed keys.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// MustNewStore creates a store at the configured path and loads any
// existing content. A missing file starts empty; an unreadable one
// panics since it points at a deployment problem.
func MustNewStore() *Store {
	path := viper.GetString("localstore.path")
	if path == "" {
		path = "ordering-gateway.state.json"
	}

	s, err := NewStore(path)
	if err != nil {
		panic(fmt.Sprintf("failed to open local store: %v", err))
	}

	return s
}

// NewStore creates a store backed by the given file.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}

		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return s, nil
}

// Get decodes the value stored under key into out. Returns
// ErrKeyNotFound when the key is absent.
func (s *Store) Get(key string, out any) error {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()

	if !ok {
		return ErrKeyNotFound
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode key %q: %w", key, err)
	}

	return nil
}

// Set encodes value under key and re-persists the whole file
// synchronously (write-through).
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode key %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = raw

	return s.flush()
}

// Delete removes a key and re-persists. Deleting an absent key is a
// no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)

	return s.flush()
}

// flush writes the store atomically: temp file in the same directory,
// then rename. Caller must hold the mutex.
func (s *Store) flush() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
