package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/port"
)

// FileStore keeps a single session in a JSON file, for the CLI. The file holds
// the same keys a browser would keep in local storage.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileSession struct {
	AccessToken string `json:"accessToken"`
	UserName    string `json:"userName,omitempty"`
	UserEmail   string `json:"userEmail,omitempty"`
}

// NewFileStore returns a store backed by path. The file is created on Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get implements port.SessionStore. The id is ignored: the file holds one session.
func (f *FileStore) Get(_ context.Context, id string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, port.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var fs fileSession
	if err := json.Unmarshal(b, &fs); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	if fs.AccessToken == "" {
		return nil, port.ErrSessionNotFound
	}
	return &domain.Session{
		ID:          id,
		AccessToken: fs.AccessToken,
		UserName:    fs.UserName,
		UserEmail:   fs.UserEmail,
	}, nil
}

// Save implements port.SessionStore with an atomic tmp+rename write.
func (f *FileStore) Save(_ context.Context, s *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	b, err := json.MarshalIndent(fileSession{
		AccessToken: s.AccessToken,
		UserName:    s.UserName,
		UserEmail:   s.UserEmail,
	}, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, f.path)
}

// Delete implements port.SessionStore.
func (f *FileStore) Delete(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

var (
	_ port.SessionStore = (*FileStore)(nil)
	_ port.SessionStore = (*MemoryStore)(nil)
	_ port.SessionStore = (*PostgresStore)(nil)
)
