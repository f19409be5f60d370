package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const credFileName = "credentials.json"

// EnvToken overrides the stored credentials when set.
const EnvToken = "TICKETRIK_TOKEN"

// credRecord is the on-disk shape. Single file, human-readable.
type credRecord struct {
	Token     string    `json:"token"`
	Source    string    `json:"source"` // "env" | "file"
	CreatedAt time.Time `json:"created_at"`
}

// Store persists the session token between runs under dir (by default
// ~/.ticketrik). Tokens from the environment are never written back.
type Store struct {
	dir string
}

// NewStore returns a store rooted at ~/.ticketrik.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	return &Store{dir: filepath.Join(home, ".ticketrik")}, nil
}

// NewStoreAt returns a store rooted at an explicit directory (tests).
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

func (st *Store) path() string {
	return filepath.Join(st.dir, credFileName)
}

// Load returns the persisted session. The env var wins over the file; a
// missing file means an inactive session, not an error.
func (st *Store) Load() (Session, error) {
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		return New(env), nil
	}

	b, err := os.ReadFile(st.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("read credentials: %w", err)
	}
	var rec credRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return Session{}, fmt.Errorf("parse credentials: %w", err)
	}
	return New(rec.Token), nil
}

// Save writes the session token with owner-only permissions.
func (st *Store) Save(s Session) error {
	if !s.Active() {
		return fmt.Errorf("empty token")
	}
	if err := os.MkdirAll(st.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	rec := credRecord{
		Token:     s.Token,
		Source:    "file",
		CreatedAt: time.Now(),
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(st.path(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Clear removes the persisted credentials. Clearing an already-clean
// store is not an error.
func (st *Store) Clear() error {
	if err := os.Remove(st.path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
