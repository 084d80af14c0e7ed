package authsdk

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// StoredTokens is the persisted token pair a SessionManager resolves from.
type StoredTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenStore persists the token pair between process runs. Implementations
// must be safe for concurrent use.
type TokenStore interface {
	// Load returns the stored tokens. ok is false when nothing is stored.
	Load() (tokens StoredTokens, ok bool, err error)

	// Save replaces the stored tokens.
	Save(tokens StoredTokens) error

	// Clear removes any stored tokens. Clearing an empty store is not an error.
	Clear() error
}

// MemoryTokenStore keeps tokens in process memory. Useful for tests and for
// short-lived tools that should not persist credentials.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens StoredTokens
	set    bool
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load() (StoredTokens, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens, s.set, nil
}

func (s *MemoryTokenStore) Save(tokens StoredTokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokens
	s.set = true
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = StoredTokens{}
	s.set = false
	return nil
}

// FileTokenStore persists tokens as a JSON file with owner-only permissions.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Load() (StoredTokens, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StoredTokens{}, false, nil
		}
		return StoredTokens{}, false, err
	}

	var tokens StoredTokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		// A corrupt file is the same as no file; the caller re-authenticates.
		return StoredTokens{}, false, nil
	}
	if tokens.AccessToken == "" && tokens.RefreshToken == "" {
		return StoredTokens{}, false, nil
	}
	return tokens, true, nil
}

func (s *FileTokenStore) Save(tokens StoredTokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
