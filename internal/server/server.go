// Package server provides the HTTP server for the Tactus gesture recognizer.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/tactus/internal/config"
	"github.com/ayusman/tactus/internal/monitoring"
	"github.com/ayusman/tactus/internal/server/api"
)

// Config holds the server configuration.
type Config struct {
	StaticDir   string
	Recognition config.Config // zero value means config.Default()
}

// Server represents the HTTP server for the Tactus application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(cfg Config) *Server {
	if cfg.Recognition == (config.Config{}) {
		cfg.Recognition = config.Default()
	}

	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// The recognition endpoints need a usable configuration
	if classifiers, err := api.NewClassifiersHandler(s.config.Recognition); err != nil {
		monitoring.Logf("Recognition endpoints disabled: %v", err)
	} else {
		s.mux.Handle("/api/classifiers", classifiers)
		s.mux.Handle("/api/recognize", api.NewRecognizeHandler(s.config.Recognition))
		s.mux.Handle("/api/session", NewSessionHandler(s.config.Recognition))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
