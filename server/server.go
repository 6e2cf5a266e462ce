// Package server exposes the protocol dispatcher over HTTP: a JSON-RPC
// endpoint, a direct call-by-name endpoint, per-operation REST shortcuts,
// and discovery/health plumbing. All framings produce equivalent result
// payloads; they differ only in envelope shape.
package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petal-labs/salescast/tool"
)

// Config controls server dependencies.
type Config struct {
	Dispatcher *tool.Dispatcher
	Logger     *slog.Logger
	Name       string
	Version    string
}

// Server routes protocol requests to a dispatcher.
type Server struct {
	dispatcher *tool.Dispatcher
	logger     *slog.Logger
	name       string
	version    string
}

// NewServer constructs a Server.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "salescast"
	}
	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		version = "dev"
	}
	return &Server{
		dispatcher: cfg.Dispatcher,
		logger:     logger,
		name:       name,
		version:    version,
	}
}

// RegisterRoutes attaches all endpoints to a mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleInfo)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /tools", s.handleListTools)
	mux.HandleFunc("POST /tools/call", s.handleCallTool)
	mux.HandleFunc("POST /mcp", s.handleMCP)

	mux.HandleFunc("GET /api/political-events/{year}", s.handlePoliticalEvents)
	mux.HandleFunc("GET /api/gdp/{year}", s.handleGDP)
	mux.HandleFunc("GET /api/forecast-factors/{year}", s.handleForecastFactors)
}

// Handler returns the routed handler with request logging attached.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.withRequestLog(mux)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    s.name,
		"version": s.version,
		"status":  "running",
		"endpoints": map[string]string{
			"tools_list": "/tools",
			"tool_call":  "/tools/call",
			"mcp":        "/mcp",
			"health":     "/health",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
