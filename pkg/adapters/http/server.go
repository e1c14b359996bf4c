package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/strips"
	"github.com/aretw0/strips/internal/logging"
	"github.com/aretw0/strips/pkg/document"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/aretw0/strips/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxBodyBytes bounds request bodies; models are small text documents.
const MaxBodyBytes = 4 << 20

// Server exposes a ports.PlanService over JSON.
type Server struct {
	Service  ports.PlanService
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithGatherer serves metrics from g at /metrics instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = l
	}
}

// NewHandler creates a new HTTP handler for the service.
func NewHandler(svc ports.PlanService, opts ...Option) http.Handler {
	server := &Server{
		Service:  svc,
		Gatherer: prometheus.DefaultGatherer,
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if router, err := newRouter(); err != nil {
		server.logger().Error("Request validation disabled", "error", err)
	} else {
		r.Use(server.validateRequests(router))
	}

	r.Get("/healthz", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/openapi.yaml", server.GetOpenAPI)
	r.Handle("/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", server.Solve)
		r.Post("/validate", server.Validate)
		r.Post("/ground", server.Ground)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Solve handles the POST /v1/solve request.
func (s *Server) Solve(w http.ResponseWriter, r *http.Request) {
	var req ports.SolveRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.Service.Solve(r.Context(), req)
	if err != nil {
		s.fail(w, "Solve", err)
		return
	}
	s.logger().Info("solve",
		"run_id", resp.RunID,
		"outcome", resp.Outcome,
		"plan_length", len(resp.Plan),
		"cached", resp.Cached,
	)
	writeJSON(w, http.StatusOK, resp)
}

// Validate handles the POST /v1/validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var req ports.ValidateRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.Service.Validate(r.Context(), req)
	if err != nil {
		s.fail(w, "Validate", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Ground handles the POST /v1/ground request. The body is a model bundle.
func (s *Server) Ground(w http.ResponseWriter, r *http.Request) {
	var model document.Bundle
	if !s.decode(w, r, &model) {
		return
	}
	resp, err := s.Service.Ground(r.Context(), model)
	if err != nil {
		s.fail(w, "Ground", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "strips-http",
		"version": strings.TrimSpace(strips.Version),
	})
}

// -- Helpers --

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return logging.NewNop()
	}
	return s.Logger
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.logger().Warn("Invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger().Error(op+" failed", "error", err)
	}
	writeError(w, status, err.Error())
}

// StatusFor maps service errors to HTTP status codes. Model errors are the
// client's fault; a canceled request never reaches the client anyway.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformed),
		errors.Is(err, domain.ErrTypeMismatch),
		errors.Is(err, domain.ErrUnknownSymbol):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
