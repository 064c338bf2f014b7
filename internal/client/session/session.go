// Package session keeps the signed-in user's token between CLI runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
)

// Data is what gets persisted.
type Data struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

// Store persists session data.
type Store interface {
	Load() (Data, error)
	Save(Data) error
	Clear() error
}

// FileStore keeps the session as a JSON file readable only by its owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns empty Data when no session has been saved yet.
func (s *FileStore) Load() (Data, error) {
	var d Data
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return d, nil
	}
	if err != nil {
		return d, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("decode session file: %w", err)
	}
	return d, nil
}

func (s *FileStore) Save(d Data) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	data Data
}

func (s *MemoryStore) Load() (Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, nil
}

func (s *MemoryStore) Save(d Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = d
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = Data{}
	return nil
}

// Session is the in-memory view of the current login, backed by a Store.
type Session struct {
	mu    sync.RWMutex
	store Store
	data  Data
}

func New(store Store) *Session {
	return &Session{store: store}
}

// LoadFromStorage replaces the in-memory session with the stored one.
func (s *Session) LoadFromStorage() error {
	d, err := s.store.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = d
	s.mu.Unlock()
	return nil
}

func (s *Session) Save(token string, user models.UserSummary) error {
	d := Data{Token: token, User: user}
	s.mu.Lock()
	s.data = d
	s.mu.Unlock()
	return s.store.Save(d)
}

func (s *Session) Clear() error {
	s.mu.Lock()
	s.data = Data{}
	s.mu.Unlock()
	return s.store.Clear()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

func (s *Session) User() models.UserSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.User
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}
