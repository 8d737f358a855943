// Package wizard implements the two-step setup flow for configuring a
// notification entry: validate an access token, then pick a recipient.
package wizard

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/kai-zer-ru/max-notify/internal/maxapi"
	"github.com/kai-zer-ru/max-notify/internal/models"
	"github.com/rs/zerolog"
)

// Code identifies a validation outcome of a wizard step. The empty code means
// the step succeeded. Codes are form-redisplay signals, not errors: the flow
// stays on the same step until the input passes.
type Code string

// Step validation codes.
const (
	CodeInvalidToken      Code = "invalid_token"
	CodeInvalidAuth       Code = "invalid_auth"
	CodeCannotConnect     Code = "cannot_connect"
	CodeUnknown           Code = "unknown"
	CodeUserIDRequired    Code = "user_id_required"
	CodeInvalidUserID     Code = "invalid_user_id"
	CodeChatIDRequired    Code = "chat_id_required"
	CodeInvalidChatID     Code = "invalid_chat_id"
	CodeAlreadyConfigured Code = "already_configured"
)

// State is the wizard's position in the flow.
type State int

// Flow states. Token and Recipient self-loop on validation failure;
// Created and Aborted are terminal.
const (
	StateToken State = iota
	StateRecipient
	StateCreated
	StateAborted
)

// TokenValidator checks an access token against the live API.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) error
}

// TokenValidatorFunc adapts a function to the TokenValidator interface.
type TokenValidatorFunc func(ctx context.Context, token string) error

// ValidateToken implements TokenValidator.
func (f TokenValidatorFunc) ValidateToken(ctx context.Context, token string) error {
	return f(ctx, token)
}

// APIValidator returns the production validator backed by the Max API.
func APIValidator() TokenValidator {
	return TokenValidatorFunc(func(ctx context.Context, token string) error {
		return maxapi.New(token).Me(ctx)
	})
}

// EntryRegistry is where a completed flow registers its entry.
type EntryRegistry interface {
	Contains(uniqueID string) bool
	Add(entry models.Entry) error
}

// Flow carries the state of one setup run. All step data lives here
// explicitly; each Submit call advances the state or self-loops with a code.
type Flow struct {
	validator TokenValidator
	registry  EntryRegistry
	logger    zerolog.Logger

	state         State
	name          string
	token         string
	recipientType string
	userID        string
	chatID        string
	entry         models.Entry
}

// New creates a flow positioned on the token step.
func New(validator TokenValidator, registry EntryRegistry, logger zerolog.Logger) *Flow {
	return &Flow{
		validator: validator,
		registry:  registry,
		logger:    logger,
		state:     StateToken,
	}
}

// State returns the current flow state.
func (f *Flow) State() State { return f.state }

// Token returns the last submitted token, for form redisplay.
func (f *Flow) Token() string { return f.token }

// RecipientType returns the last submitted recipient type, defaulting to user.
func (f *Flow) RecipientType() string {
	if f.recipientType == "" {
		return models.RecipientTypeUser
	}
	return f.recipientType
}

// UserID returns the last submitted user id input, for form redisplay.
func (f *Flow) UserID() string { return f.userID }

// ChatID returns the last submitted chat id input, for form redisplay.
func (f *Flow) ChatID() string { return f.chatID }

// SetName sets the optional display name given to the created entry.
func (f *Flow) SetName(name string) { f.name = strings.TrimSpace(name) }

// Entry returns the created entry. Valid only in StateCreated.
func (f *Flow) Entry() models.Entry { return f.entry }

// SubmitToken handles the token step. An empty token is rejected without a
// network call; otherwise the token is checked against GET /me.
func (f *Flow) SubmitToken(ctx context.Context, raw string) Code {
	if f.state != StateToken {
		return CodeUnknown
	}

	f.token = strings.TrimSpace(raw)
	if f.token == "" {
		return CodeInvalidToken
	}

	err := f.validator.ValidateToken(ctx, f.token)
	if err == nil {
		f.state = StateRecipient
		return ""
	}

	if errors.Is(err, maxapi.ErrUnauthorized) {
		return CodeInvalidAuth
	}

	var statusErr *maxapi.StatusError
	if errors.As(err, &statusErr) {
		f.logger.Warn().
			Int("status", statusErr.Status).
			Str("body", truncate(statusErr.Body, 200)).
			Msg("Max API /me failed")
		return CodeCannotConnect
	}

	var transportErr *maxapi.TransportError
	if errors.As(err, &transportErr) {
		f.logger.Warn().Err(err).Msg("Max API request failed")
		return CodeCannotConnect
	}

	f.logger.Error().Err(err).Msg("unexpected error validating Max token")
	return CodeUnknown
}

// SubmitRecipient handles the recipient step: a recipient type plus the
// matching free-text id. On success the entry is built and registered;
// a duplicate unique id aborts the flow.
func (f *Flow) SubmitRecipient(recipientType, rawID string) Code {
	if f.state != StateRecipient {
		return CodeUnknown
	}

	f.recipientType = recipientType

	var id int64
	switch recipientType {
	case models.RecipientTypeUser:
		f.userID = strings.TrimSpace(rawID)
		f.chatID = ""
		if f.userID == "" {
			return CodeUserIDRequired
		}
		parsed, err := strconv.ParseInt(f.userID, 10, 64)
		if err != nil || parsed <= 0 {
			return CodeInvalidUserID
		}
		id = parsed
	case models.RecipientTypeChat:
		f.chatID = strings.TrimSpace(rawID)
		f.userID = ""
		if f.chatID == "" {
			return CodeChatIDRequired
		}
		parsed, err := strconv.ParseInt(f.chatID, 10, 64)
		if err != nil || parsed <= 0 {
			return CodeInvalidChatID
		}
		id = parsed
	default:
		return CodeUnknown
	}

	entry := models.Entry{
		Name:          f.name,
		AccessToken:   f.token,
		RecipientType: recipientType,
	}
	if recipientType == models.RecipientTypeUser {
		entry.UserID = id
	} else {
		entry.ChatID = id
	}

	if f.registry.Contains(entry.UniqueID()) {
		f.logger.Warn().Str("unique_id", entry.UniqueID()).Msg("recipient already configured")
		f.state = StateAborted
		return CodeAlreadyConfigured
	}

	if err := f.registry.Add(entry); err != nil {
		f.logger.Warn().Err(err).Str("unique_id", entry.UniqueID()).Msg("registering entry failed")
		f.state = StateAborted
		return CodeAlreadyConfigured
	}

	f.entry = entry
	f.state = StateCreated
	f.logger.Info().
		Str("unique_id", entry.UniqueID()).
		Str("title", entry.Title()).
		Msg("entry created")
	return ""
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
