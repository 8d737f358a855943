package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntry_UniqueIDAndTitle(t *testing.T) {
	tests := []struct {
		name     string
		entry    Entry
		uniqueID string
		title    string
	}{
		{
			name:     "user recipient",
			entry:    Entry{RecipientType: RecipientTypeUser, UserID: 42},
			uniqueID: "max_notify_42",
			title:    "Max Notify (42)",
		},
		{
			name:     "chat recipient",
			entry:    Entry{RecipientType: RecipientTypeChat, ChatID: 777},
			uniqueID: "max_notify_777",
			title:    "Max Notify (777)",
		},
		{
			name:     "no recipient",
			entry:    Entry{},
			uniqueID: "max_notify_default",
			title:    "Max Notify (default)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.uniqueID, tt.entry.UniqueID())
			assert.Equal(t, tt.title, tt.entry.Title())
		})
	}
}

func TestEntry_DisplayName(t *testing.T) {
	assert.Equal(t, "Max user_42", Entry{RecipientType: RecipientTypeUser, UserID: 42}.DisplayName())
	assert.Equal(t, "Max chat_777", Entry{RecipientType: RecipientTypeChat, ChatID: 777}.DisplayName())
	assert.Equal(t, "Max default", Entry{}.DisplayName())
}

func TestEntry_RecipientID(t *testing.T) {
	assert.Equal(t, int64(42), Entry{UserID: 42, ChatID: 777}.RecipientID())
	assert.Equal(t, int64(777), Entry{ChatID: 777}.RecipientID())
	assert.Equal(t, int64(0), Entry{}.RecipientID())
}
