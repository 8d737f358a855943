// Package server exposes the notify dispatch surface over HTTP.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/kai-zer-ru/max-notify/internal/config"
	"github.com/kai-zer-ru/max-notify/internal/models"
	"github.com/kai-zer-ru/max-notify/internal/services/notify"
	"github.com/rs/zerolog"
)

// Server dispatches incoming notify requests to configured entries.
type Server struct {
	cfg       *models.Config
	notifySvc notify.Service
	logger    zerolog.Logger
	validate  *validator.Validate
}

// New creates a server over the given configuration.
func New(cfg *models.Config, notifySvc notify.Service, logger zerolog.Logger) *Server {
	return &Server{
		cfg:       cfg,
		notifySvc: notifySvc,
		logger:    logger,
		validate:  validator.New(),
	}
}

// Router constructs the chi mux with all routes wired.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Post("/notify", s.handleNotify)

	return r
}

// notifyRequest is the dispatch payload. Entry selects a configured entry by
// name or unique id; empty means the first entry.
type notifyRequest struct {
	Entry   string `json:"entry"`
	Title   string `json:"title"`
	Message string `json:"message" validate:"required"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleNotify mirrors the notify dispatch contract: the caller has no error
// channel for delivery failures, so any well-formed request is answered ok
// once the attempt completes; the outcome surfaces only in logs.
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	entry, ok := config.FindEntry(s.cfg, req.Entry)
	if !ok {
		s.logger.Warn().Str("entry", req.Entry).Msg("notify request for unknown entry")
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown entry"})
		return
	}

	result, _ := s.notifySvc.Send(r.Context(), entry, models.Message{
		Title: req.Title,
		Body:  req.Message,
	})
	if result.Error != nil {
		s.logger.Debug().Err(result.Error).Str("entry", entry.DisplayName()).Msg("send attempt failed")
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
