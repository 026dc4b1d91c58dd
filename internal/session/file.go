package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const stateFile = "state.json"

type fileState struct {
	Token string `json:"token"`
}

// FileStore persists the token as JSON on disk, for terminal clients.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStatePath returns $XDG_CONFIG_HOME/<app>/state.json, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultStatePath(app string) (string, error) {
	dir, err := ConfigDir(app)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, stateFile), nil
}

// ConfigDir returns the per-user config directory for app.
func ConfigDir(app string) (string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, app), nil
}

// Path returns the state file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return "", err
	}
	return state.Token, nil
}

func (s *FileStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(fileState{Token: token})
}

func (s *FileStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session state: %w", err)
	}
	return nil
}

func (s *FileStore) load() (fileState, error) {
	var state fileState

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, fmt.Errorf("read session state: %w", err)
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("parse session state: %w", err)
	}
	return state, nil
}

func (s *FileStore) write(state fileState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}
	return nil
}
