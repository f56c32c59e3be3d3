// Package settings persists the device-local configuration blob (branding,
// theme, fiscal profile) as one JSON file. The store is an explicit dependency
// injected into the components that need it; receipt rendering, report
// export, the settings endpoints; never ambient global state.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"posmorales/internal/model"
)

// Store is the single load/save lifecycle for the settings blob: read once at
// startup, written through on every change.
type Store struct {
	path string

	mu      sync.RWMutex
	current model.Settings
}

func NewStore(path string) *Store {
	return &Store{path: path, current: model.DefaultSettings()}
}

// Load reads the blob from disk. A missing file is not an error; the
// defaults stand until the operator saves their own profile.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("settings: read %s: %w", s.path, err)
	}

	// Unmarshal over the defaults so fields absent from an older blob keep
	// their default values.
	loaded := model.DefaultSettings()
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("settings: parse %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
	return nil
}

// Get returns the current settings snapshot.
func (s *Store) Get() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Save replaces the settings and writes them through to disk atomically
// (temp file + rename).
func (s *Store) Save(next model.Settings) error {
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("settings: create dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("settings: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("settings: rename: %w", err)
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return nil
}
