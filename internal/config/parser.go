// Package config provides configuration file parsing and entry storage.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kai-zer-ru/max-notify/internal/models"
	"github.com/spf13/viper"
)

// Parser handles configuration file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	return &Parser{v: v}
}

// LoadFile loads configuration from a file path.
func (p *Parser) LoadFile(path string) (*models.Config, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a string (useful for testing).
func (p *Parser) LoadReader(content string) (*models.Config, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

// rawEntry mirrors one entry as written in the config file.
type rawEntry struct {
	Name          string `mapstructure:"name"`
	AccessToken   string `mapstructure:"access_token"`
	RecipientType string `mapstructure:"recipient_type"`
	UserID        int64  `mapstructure:"user_id"`
	ChatID        int64  `mapstructure:"chat_id"`
}

func (p *Parser) parse() (*models.Config, error) {
	var raw []rawEntry
	if err := p.v.UnmarshalKey("entries", &raw); err != nil {
		return nil, fmt.Errorf("parsing entries: %w", err)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("entries is required")
	}

	cfg := &models.Config{}
	seen := make(map[string]bool)

	for i, re := range raw {
		entry := models.Entry{
			Name:          strings.TrimSpace(re.Name),
			AccessToken:   strings.TrimSpace(p.expandEnv(re.AccessToken)),
			RecipientType: re.RecipientType,
			UserID:        re.UserID,
			ChatID:        re.ChatID,
		}

		if entry.AccessToken == "" {
			return nil, fmt.Errorf("entries[%d]: access_token is required", i)
		}

		switch entry.RecipientType {
		case models.RecipientTypeUser:
			if entry.UserID <= 0 {
				return nil, fmt.Errorf("entries[%d]: user_id must be a positive integer", i)
			}
			entry.ChatID = 0
		case models.RecipientTypeChat:
			if entry.ChatID <= 0 {
				return nil, fmt.Errorf("entries[%d]: chat_id must be a positive integer", i)
			}
			entry.UserID = 0
		default:
			return nil, fmt.Errorf("entries[%d]: recipient_type must be one of: user, chat", i)
		}

		if seen[entry.UniqueID()] {
			return nil, fmt.Errorf("entries[%d]: duplicate recipient %s", i, entry.UniqueID())
		}
		seen[entry.UniqueID()] = true

		cfg.Entries = append(cfg.Entries, entry)
	}

	return cfg, nil
}

// expandEnv expands environment variables in the format ${VAR} or $VAR.
func (p *Parser) expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if len(cfg.Entries) == 0 {
		return fmt.Errorf("entries is required")
	}

	for i, e := range cfg.Entries {
		if e.AccessToken == "" {
			return fmt.Errorf("entries[%d]: access_token is required", i)
		}
		if e.RecipientID() <= 0 {
			return fmt.Errorf("entries[%d]: a positive user_id or chat_id is required", i)
		}
	}

	return nil
}

// FindEntry selects an entry by name or unique id. An empty name selects the
// first entry.
func FindEntry(cfg *models.Config, name string) (models.Entry, bool) {
	if len(cfg.Entries) == 0 {
		return models.Entry{}, false
	}
	if name == "" {
		return cfg.Entries[0], true
	}
	for _, e := range cfg.Entries {
		if e.Name == name || e.UniqueID() == name {
			return e, true
		}
	}
	return models.Entry{}, false
}
