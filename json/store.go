// Package json implements [campus.Store] as a single JSON file.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/campus"
)

// Interface compliance check.
var _ campus.Store = (*Store)(nil)

// envelope is the v1 wire format of the store file.
type envelope struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

// Store keeps key/value pairs in a JSON file. The file is read on first use
// and rewritten atomically on every change. A missing file is an empty store.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]string // nil until loaded
}

// NewStore returns a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store writes to.
func (s *Store) Path() string { return s.path }

func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return "", false, err
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	next := maps.Clone(s.values)
	next[key] = value
	return s.commit(next)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	if _, ok := s.values[key]; !ok {
		return nil
	}
	next := maps.Clone(s.values)
	delete(next, key)
	return s.commit(next)
}

// Clear removes every key.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(map[string]string{})
}

func (s *Store) load() error {
	if s.values != nil {
		return nil
	}
	values, err := Load(s.path)
	if err != nil {
		return err
	}
	s.values = values
	return nil
}

// commit writes next to disk and adopts it only when the write succeeded.
func (s *Store) commit(next map[string]string) error {
	if err := Save(s.path, next); err != nil {
		return err
	}
	s.values = next
	return nil
}

// Marshal serializes values in v1 envelope format.
func Marshal(values map[string]string) ([]byte, error) {
	if values == nil {
		values = map[string]string{}
	}
	return json.MarshalIndent(envelope{Version: 1, Values: values}, "", "  ")
}

// Unmarshal deserializes values from v1 envelope format.
func Unmarshal(data []byte) (map[string]string, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return nil, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	if env.Values == nil {
		env.Values = map[string]string{}
	}
	return env.Values, nil
}

// Save writes values to a JSON file, creating parent directories as needed.
// The file is replaced atomically and readable only by its owner.
func Save(path string, values map[string]string) error {
	data, err := Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads values from a JSON file. A missing file yields an empty map.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Unmarshal(data)
}
