// Package prefs remembers card preferences across runs.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

const showContextKey = "card.show_context"

// Store persists user preferences for the exception card
type Store interface {
	// ShowContext returns the remembered value and whether one was stored
	ShowContext() (value bool, ok bool)

	// SetShowContext remembers the value
	SetShowContext(value bool) error
}

// FileStore keeps preferences in a YAML file through viper
type FileStore struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// Open loads the preference file at path. A missing file is not an error;
// it is created on the first write.
func Open(path string) (*FileStore, error) {
	if filepath.Ext(path) == "" {
		path += ".yaml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read preferences %s: %w", path, err)
		}
	}

	return &FileStore{v: v, path: path}, nil
}

// Path returns the backing file location
func (s *FileStore) Path() string {
	return s.path
}

// ShowContext implements Store
func (s *FileStore) ShowContext() (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.v.IsSet(showContextKey) {
		return false, false
	}
	return s.v.GetBool(showContextKey), true
}

// SetShowContext implements Store
func (s *FileStore) SetShowContext(value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(showContextKey, value)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create preference directory: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write preferences %s: %w", s.path, err)
	}
	return nil
}

// MemoryStore keeps preferences for the lifetime of the process
type MemoryStore struct {
	mu          sync.Mutex
	showContext *bool
}

// NewMemoryStore creates an empty in-process store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ShowContext implements Store
func (m *MemoryStore) ShowContext() (bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.showContext == nil {
		return false, false
	}
	return *m.showContext, true
}

// SetShowContext implements Store
func (m *MemoryStore) SetShowContext(value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.showContext = &value
	return nil
}
