package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"cvleak/app"
	"cvleak/domain/core"
	"cvleak/domain/eval"
	"cvleak/internal"
	"cvleak/internal/report"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes the leakage demonstration over HTTP: a rendered report
// page plus a small JSON API over persisted runs.
type Server struct {
	service *app.ExperimentService
	logger  *internal.Logger
	router  chi.Router

	mu      sync.RWMutex
	current *eval.ExperimentRun
}

// NewServer creates the HTTP server. current is the run executed at
// startup; it backs the report page when no ledger is configured.
func NewServer(service *app.ExperimentService, logger *internal.Logger, current *eval.ExperimentRun) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{service: service, logger: logger, current: current}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleReport)
	r.Route("/api", func(r chi.Router) {
		r.Get("/runs/latest", s.handleLatestRun)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{runID}", s.handleGetRun)
	})
	s.router = r

	return s
}

// Handler returns the mounted route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until the listener fails.
func (s *Server) Start(port string) error {
	s.logger.Info("serving on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReport renders the current run as an HTML page.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	run := s.currentRun(r.Context())
	if run == nil {
		http.Error(w, "no runs available", http.StatusNotFound)
		return
	}

	body := report.RenderHTML(report.Markdown(run))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "<!DOCTYPE html><html><head><title>Selection Leakage</title></head><body>%s</body></html>", body)
}

func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	run := s.currentRun(r.Context())
	if run == nil {
		writeError(w, http.StatusNotFound, "no runs available")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, err := core.ParseRunID(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if run, err := s.service.GetRun(r.Context(), runID); err == nil {
		writeJSON(w, http.StatusOK, run)
		return
	}

	// No ledger, or the run predates it: the startup run may still match.
	if cur := s.snapshot(); cur != nil && cur.RunID == runID {
		writeJSON(w, http.StatusOK, cur)
		return
	}
	writeError(w, http.StatusNotFound, "run not found")
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	runs, err := s.service.ListRuns(r.Context(), limit)
	if err != nil {
		if cur := s.snapshot(); cur != nil {
			writeJSON(w, http.StatusOK, []*eval.ExperimentRun{cur})
			return
		}
		writeError(w, http.StatusNotFound, "no runs available")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// currentRun prefers the ledger's latest run and falls back to the
// in-memory run from startup.
func (s *Server) currentRun(ctx context.Context) *eval.ExperimentRun {
	if run, err := s.service.LatestRun(ctx); err == nil {
		return run
	}
	return s.snapshot()
}

func (s *Server) snapshot() *eval.ExperimentRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
