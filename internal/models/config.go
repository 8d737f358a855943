// Package models contains the data structures used throughout max-notify.
package models

import "fmt"

// Recipient types.
const (
	RecipientTypeUser = "user"
	RecipientTypeChat = "chat"
)

// Config holds the complete max-notify configuration.
type Config struct {
	Entries []Entry
}

// Entry is one configured notification target: an access token plus the
// recipient it delivers to. Entries are immutable once created.
type Entry struct {
	Name          string // optional, for selecting an entry on the CLI
	AccessToken   string
	RecipientType string
	UserID        int64 // set when RecipientType is "user"
	ChatID        int64 // set when RecipientType is "chat"
}

// RecipientID returns the configured recipient id, preferring the user id.
// Returns 0 when neither is set.
func (e Entry) RecipientID() int64 {
	if e.UserID != 0 {
		return e.UserID
	}
	return e.ChatID
}

// uniqueSuffix is the recipient id as a string, or "default" when absent.
func (e Entry) uniqueSuffix() string {
	if id := e.RecipientID(); id != 0 {
		return fmt.Sprintf("%d", id)
	}
	return "default"
}

// UniqueID returns the key under which this entry is registered. Two entries
// with the same unique id cannot coexist.
func (e Entry) UniqueID() string {
	return "max_notify_" + e.uniqueSuffix()
}

// Title returns the human-readable entry title.
func (e Entry) Title() string {
	return fmt.Sprintf("Max Notify (%s)", e.uniqueSuffix())
}

// DisplayName returns the short name used in logs and summaries.
func (e Entry) DisplayName() string {
	switch {
	case e.RecipientType == RecipientTypeUser && e.UserID != 0:
		return fmt.Sprintf("Max user_%d", e.UserID)
	case e.ChatID != 0:
		return fmt.Sprintf("Max chat_%d", e.ChatID)
	default:
		return "Max default"
	}
}
