// Package notify implements message delivery to the Max platform.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kai-zer-ru/max-notify/internal/maxapi"
	"github.com/kai-zer-ru/max-notify/internal/models"
	"github.com/rs/zerolog"
)

// MaxMessageLength is the hard cap the Max API places on a message text.
const MaxMessageLength = 4000

// Service defines the interface for send operations.
type Service interface {
	Send(ctx context.Context, entry models.Entry, msg models.Message) (*models.SendResult, error)
}

// Impl implements the notify Service interface. Send is best-effort: every
// failure is logged and carried in the result, never returned as an error.
type Impl struct {
	httpClient maxapi.HTTPClient
	logger     zerolog.Logger
	baseURL    string
}

// New creates a new notify service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:  logger,
		baseURL: maxapi.DefaultBaseURL,
	}
}

// NewWithClient creates a new notify service with a custom HTTP client (for testing).
func NewWithClient(logger zerolog.Logger, httpClient maxapi.HTTPClient, baseURL string) *Impl {
	return &Impl{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    baseURL,
	}
}

// Send delivers one message to the entry's recipient. The returned error is
// always nil; check result.Error for the outcome.
func (s *Impl) Send(ctx context.Context, entry models.Entry, msg models.Message) (*models.SendResult, error) {
	result := &models.SendResult{}

	text := msg.Body
	if msg.Title != "" {
		text = msg.Title + "\n" + msg.Body
	}

	s.logger.Debug().
		Str("entry", entry.DisplayName()).
		Int("len", len(msg.Body)).
		Msg("preparing message")

	if runes := []rune(text); len(runes) > MaxMessageLength {
		s.logger.Warn().
			Int("from", len(runes)).
			Int("to", MaxMessageLength).
			Msg("message truncated")
		text = string(runes[:MaxMessageLength])
		result.Truncated = true
	}

	if entry.AccessToken == "" {
		result.Error = errors.New("no access token configured")
		s.logger.Error().Str("entry", entry.DisplayName()).Msg("no access token in entry")
		return result, nil
	}

	var recipientParam string
	var recipientID int64
	switch {
	case entry.UserID != 0:
		recipientParam, recipientID = "user_id", entry.UserID
		s.logger.Debug().Int64("user_id", recipientID).Msg("recipient selected")
	case entry.ChatID != 0:
		recipientParam, recipientID = "chat_id", entry.ChatID
		s.logger.Debug().Int64("chat_id", recipientID).Msg("recipient selected")
	default:
		result.Error = fmt.Errorf("entry must have a non-zero user_id or chat_id (user_id=%d, chat_id=%d)", entry.UserID, entry.ChatID)
		s.logger.Error().
			Int64("user_id", entry.UserID).
			Int64("chat_id", entry.ChatID).
			Msg("entry has no usable recipient")
		return result, nil
	}

	client := maxapi.NewWithClient(entry.AccessToken, s.httpClient, s.baseURL)

	if err := client.SendMessage(ctx, recipientParam, recipientID, text); err != nil {
		result.Error = err

		var statusErr *maxapi.StatusError
		if errors.As(err, &statusErr) {
			s.logger.Error().
				Int("status", statusErr.Status).
				Str("body", truncate(statusErr.Body, 500)).
				Str("request_url", statusErr.URL).
				Msg("Max API send failed")
			if statusErr.Status == http.StatusForbidden &&
				strings.Contains(statusErr.Body, "chatId") &&
				recipientParam == "user_id" {
				s.logger.Info().Msg("hint: on 403 for a direct message the recipient must start the dialog with the bot in Max first")
			}
			return result, nil
		}

		s.logger.Error().Err(err).Msg("Max API request failed")
		return result, nil
	}

	result.MessageSent = true
	s.logger.Info().Str("entry", entry.DisplayName()).Msg("message sent successfully")

	return result, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
