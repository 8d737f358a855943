//go:build e2e

package e2e

import (
	"context"
	"io"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/kai-zer-ru/max-notify/internal/maxapi"
	"github.com/kai-zer-ru/max-notify/internal/models"
	"github.com/kai-zer-ru/max-notify/internal/services/notify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func getAccessToken(t *testing.T) string {
	t.Helper()

	token := os.Getenv("TEST_MAX_ACCESS_TOKEN")
	if token == "" {
		t.Skip("TEST_MAX_ACCESS_TOKEN not set")
	}
	return token
}

func getUserEntry(t *testing.T) models.Entry {
	t.Helper()

	token := getAccessToken(t)

	rawID := os.Getenv("TEST_MAX_USER_ID")
	if rawID == "" {
		t.Skip("TEST_MAX_USER_ID not set")
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	require.NoError(t, err)

	return models.Entry{
		AccessToken:   token,
		RecipientType: models.RecipientTypeUser,
		UserID:        userID,
	}
}

func TestMe_E2E(t *testing.T) {
	token := getAccessToken(t)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := maxapi.New(token)
	err := client.Me(ctx)

	assert.NoError(t, err)
}

func TestMe_InvalidToken_E2E(t *testing.T) {
	// Ensure credentials exist so this only runs in a configured environment.
	getAccessToken(t)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := maxapi.New("definitely-not-a-valid-token")
	err := client.Me(ctx)

	assert.ErrorIs(t, err, maxapi.ErrUnauthorized)
}

func TestSendMessage_E2E(t *testing.T) {
	entry := getUserEntry(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc := notify.New(testLogger())
	result, err := svc.Send(ctx, entry, models.Message{
		Title: "max-notify e2e",
		Body:  "test message sent at " + time.Now().Format(time.RFC3339),
	})

	require.NoError(t, err)
	assert.True(t, result.MessageSent)
	assert.Nil(t, result.Error)
}
