package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type storedToken struct {
	Token    string    `json:"token"`
	Username string    `json:"username,omitempty"`
	SavedAt  time.Time `json:"saved_at"`
}

// FileStore persists the token as JSON so it survives between CLI runs.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, err := s.readLocked()
	if err != nil {
		return "", err
	}
	return stored.Token, nil
}

// Username returns who saved the current token, if recorded.
func (s *FileStore) Username() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, err := s.readLocked()
	if err != nil {
		return "", err
	}
	return stored.Username, nil
}

func (s *FileStore) Save(token string, username string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}

	data, err := json.MarshalIndent(storedToken{
		Token:    token,
		Username: username,
		SavedAt:  time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

func (s *FileStore) readLocked() (storedToken, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return storedToken{}, nil
	}
	if err != nil {
		return storedToken{}, fmt.Errorf("read token file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return storedToken{}, nil
	}

	var stored storedToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return storedToken{}, fmt.Errorf("parse token file: %w", err)
	}
	stored.Token = strings.TrimSpace(stored.Token)
	return stored, nil
}
