// Package server exposes a Forest's agents over HTTP: one endpoint to run
// coordinator-planning mode, one for direct agent-to-agent collaboration,
// plus health and Prometheus metrics endpoints. It is deliberately thin —
// spec.md §1 lists "the HTTP server exposing agents" as an out-of-scope
// collaborator, so this package wires one, it does not reimplement a wire
// protocol of its own.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/helios-engine/helios/internal/telemetry"
	"github.com/helios-engine/helios/pkg/agent"
	"github.com/helios-engine/helios/pkg/forest"
)

// Server routes HTTP requests to one or more named Forests.
type Server struct {
	forests map[string]*forest.Forest
	metrics *telemetry.Metrics
	router  chi.Router
}

// New builds a Server exposing forests, keyed by forest.Name(). metrics may
// be nil to disable the /metrics endpoint.
func New(metrics *telemetry.Metrics, forests ...*forest.Forest) *Server {
	s := &Server{
		forests: make(map[string]*forest.Forest, len(forests)),
		metrics: metrics,
	}
	for _, f := range forests {
		s.forests[f.Name()] = f
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	r.Post("/v1/forests/{name}/execute", s.handleExecute)
	r.Post("/v1/forests/{name}/collaborate", s.handleCollaborate)

	return r
}

// requestLogger logs method, chi route pattern, status analog, and
// duration for every request, the same shape as the teacher's HTTP
// metrics middleware minus the OTel span (the Forest's own Execute span
// already covers the work this endpoint delegates to).
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"pattern", routePattern(r),
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type executeRequest struct {
	Goal string `json:"goal"`
}

type executeResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	f, ok := s.forests[chi.URLParam(r, "name")]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown forest")
		return
	}

	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Goal == "" {
		writeError(w, http.StatusBadRequest, "goal is required")
		return
	}

	answer, err := f.Execute(r.Context(), req.Goal)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, executeResponse{Answer: answer})
}

type collaborateRequest struct {
	Primary       string   `json:"primary"`
	Goal          string   `json:"goal"`
	Collaborators []string `json:"collaborators"`
}

func (s *Server) handleCollaborate(w http.ResponseWriter, r *http.Request) {
	f, ok := s.forests[chi.URLParam(r, "name")]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown forest")
		return
	}

	var req collaborateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Primary == "" || req.Goal == "" {
		writeError(w, http.StatusBadRequest, "primary and goal are required")
		return
	}

	collaborators := make([]agent.ID, len(req.Collaborators))
	for i, c := range req.Collaborators {
		collaborators[i] = agent.ID(c)
	}

	answer, err := f.ExecuteCollaborativeTask(r.Context(), agent.ID(req.Primary), req.Goal, collaborators)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, executeResponse{Answer: answer})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// ListenAndServe is a convenience wrapper for running the server directly;
// callers embedding Server into a larger mux can ignore it and use
// ServeHTTP instead.
func ListenAndServe(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{Addr: addr, Handler: s}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	}
}
