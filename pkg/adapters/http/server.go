// Package http exposes a braid store over a JSON HTTP API using chi.
// The handler is a host: it owns decoding, status codes and ETags, and
// delegates everything stateful to the store.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noahunallar/braid/pkg/domain"
	"github.com/noahunallar/braid/pkg/ports"
)

// Store is the dispatcher port plus the read-side extras the HTTP surface
// needs for ETags and introspection.
type Store interface {
	ports.Dispatcher
	Keys() []string
	Version() uint64
	Fingerprint() uint64
}

// StateResponse is the body of GET /state and POST /dispatch.
type StateResponse struct {
	State   map[string]any `json:"state"`
	Version uint64         `json:"version"`
}

// DispatchRequest is the body of POST /dispatch.
type DispatchRequest struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Server routes HTTP requests to a store.
type Server struct {
	store  Store
	logger *slog.Logger
}

// NewHandler creates the HTTP handler for the store.
func NewHandler(store Store, logger *slog.Logger) http.Handler {
	s := &Server{store: store, logger: logger}

	r := chi.NewRouter()
	r.Get("/state", s.handleState)
	r.Post("/dispatch", s.handleDispatch)
	r.Get("/slices", s.handleSlices)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) etag() string {
	return fmt.Sprintf("%q", fmt.Sprintf("%016x", s.store.Fingerprint()))
}

// handleState serves the combined state with an ETag derived from the state
// fingerprint, honoring If-None-Match for cheap polling.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	etag := s.etag()
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	s.writeJSON(w, http.StatusOK, StateResponse{
		State:   s.store.State(),
		Version: s.store.Version(),
	})
}

// handleDispatch decodes one action, dispatches it, and returns the new
// combined state.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var body DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("dispatch: invalid request body", "error", err)
		return
	}
	if body.Type == "" {
		http.Error(w, "Missing action type", http.StatusBadRequest)
		return
	}

	action := domain.NewAction(body.Type, body.Payload)
	if err := s.store.Dispatch(r.Context(), action); err != nil {
		if errors.Is(err, domain.ErrActionBlocked) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, fmt.Sprintf("Dispatch error: %v", err), http.StatusUnprocessableEntity)
		s.logger.Error("dispatch failed", "action_type", body.Type, "error", err)
		return
	}

	w.Header().Set("ETag", s.etag())
	s.writeJSON(w, http.StatusOK, StateResponse{
		State:   s.store.State(),
		Version: s.store.Version(),
	})
}

func (s *Server) handleSlices(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"slices": s.store.Keys()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
