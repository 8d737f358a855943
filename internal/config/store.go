package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kai-zer-ru/max-notify/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrAlreadyConfigured is returned by Add when an entry with the same unique
// id already exists. Existing entries are never overwritten.
var ErrAlreadyConfigured = errors.New("an entry for this recipient is already configured")

// fileEntry is the on-disk YAML form of one entry. The access token is kept
// verbatim, so ${ENV} references written by hand survive a wizard append.
type fileEntry struct {
	Name          string `yaml:"name,omitempty"`
	AccessToken   string `yaml:"access_token"`
	RecipientType string `yaml:"recipient_type"`
	UserID        int64  `yaml:"user_id,omitempty"`
	ChatID        int64  `yaml:"chat_id,omitempty"`
}

type fileConfig struct {
	Entries []fileEntry `yaml:"entries"`
}

// Store persists entries to a YAML config file. It is the write half of the
// config layer; reading for send goes through Parser.
type Store struct {
	path string
	cfg  fileConfig
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the current file contents. A missing file is an empty store.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.cfg = fileConfig{}
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// Contains reports whether an entry with the given unique id exists.
func (s *Store) Contains(uniqueID string) bool {
	for _, fe := range s.cfg.Entries {
		e := models.Entry{UserID: fe.UserID, ChatID: fe.ChatID}
		if e.UniqueID() == uniqueID {
			return true
		}
	}
	return false
}

// Add appends a new entry. It returns ErrAlreadyConfigured when an entry with
// the same unique id exists.
func (s *Store) Add(entry models.Entry) error {
	if s.Contains(entry.UniqueID()) {
		return ErrAlreadyConfigured
	}

	s.cfg.Entries = append(s.cfg.Entries, fileEntry{
		Name:          entry.Name,
		AccessToken:   entry.AccessToken,
		RecipientType: entry.RecipientType,
		UserID:        entry.UserID,
		ChatID:        entry.ChatID,
	})

	return nil
}

// Save writes the store back to disk. The file is created with 0600 since it
// holds access tokens.
func (s *Store) Save() error {
	data, err := yaml.Marshal(s.cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
