// Package api exposes the review engine over HTTP: one-shot review,
// compression previews, commit message generation, and a WebSocket that
// streams pipeline phases for a submitted diff.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chomins/autocommit/internal/commitmsg"
	"github.com/chomins/autocommit/internal/config"
	"github.com/chomins/autocommit/internal/provider"
	"github.com/chomins/autocommit/internal/review"
)

// Server serves the review engine over HTTP. Configuration and the
// provider client are fixed at construction; every request gets a fresh
// pipeline run.
type Server struct {
	addr   string
	cfg    *config.Config
	engine *review.Engine
	msgs   *commitmsg.Generator
	log    *slog.Logger
	mux    *http.ServeMux
	server *http.Server
}

// New creates an API server from the resolved configuration and a
// provider client. A nil logger falls back to slog.Default.
func New(addr string, cfg *config.Config, client provider.Client, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		addr:   addr,
		cfg:    cfg,
		engine: review.New(cfg, client, log),
		msgs:   commitmsg.New(cfg, client, log),
		log:    log,
	}
	s.mux = http.NewServeMux()
	s.registerRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/review", s.handleReview)
	s.mux.HandleFunc("POST /api/compress", s.handleCompress)
	s.mux.HandleFunc("POST /api/message", s.handleMessage)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log.Info("api server listening", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.log.Error("json encode", "error", err)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes a JSON request body into v.
func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
