package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mesa-admin/internal/core/port"
)

// FileStore keeps the session in a YAML file readable only by its owner.
type FileStore struct {
	path string
}

// NewFileStore persists session state as YAML at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath is the session file under the user's config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "mesa-admin", "session.yaml")
}

// Load reads the saved state. A missing file yields the zero state.
func (s *FileStore) Load() (port.SessionState, error) {
	var state port.SessionState
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("read session: %w", err)
	}
	if err := yaml.Unmarshal(data, &state); err != nil {
		return port.SessionState{}, fmt.Errorf("decode session %s: %w", s.path, err)
	}
	return state, nil
}

// Save writes state atomically with owner-only permissions.
func (s *FileStore) Save(state port.SessionState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the saved state.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
