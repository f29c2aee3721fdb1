// Package api exposes the HTTP interface for the ingestion service.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar-crawler/internal/config"
	"github.com/jobradar/jobradar-crawler/internal/ingest"
	"github.com/jobradar/jobradar-crawler/internal/metrics"
)

// Crawler runs one full ingestion sweep per call.
type Crawler interface {
	RunJobs(ctx context.Context, keyword string, pageCount int) ([]ingest.JobPosting, ingest.Diagnostics, error)
	RunSalaries(ctx context.Context, pageCount int) ([]ingest.CompanySalary, ingest.Diagnostics, error)
}

// Pinger reports storage reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires HTTP handlers to the crawl orchestrator.
type Server struct {
	router  chi.Router
	crawler Crawler
	store   Pinger
	cfg     config.Config
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(crawler Crawler, store Pinger, cfg config.Config, logger *zap.Logger) *Server {
	s := &Server{
		crawler: crawler,
		store:   store,
		cfg:     cfg,
		logger:  logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metricsMiddleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Get("/api/crawl", s.crawlJobs)
	r.Get("/api/salary-crawl", s.crawlSalaries)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "database unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// crawlJobs triggers one job-posting sweep. Partial failure still answers
// success: the aggregate holds whatever was gathered and the diagnostics
// block says what was skipped, so callers can tell "nothing found" from
// "every page failed".
func (s *Server) crawlJobs(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		keyword = s.cfg.Crawl.DefaultKeyword
	}
	pages := s.pageCount(r, s.cfg.Crawl.DefaultJobPages)

	jobs, diag, err := s.crawler.RunJobs(r.Context(), keyword, pages)
	if err != nil {
		s.logger.Error("job crawl run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "crawl run could not be started")
		return
	}
	if jobs == nil {
		jobs = []ingest.JobPosting{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"jobs":        jobs,
		"diagnostics": diag,
	})
}

// crawlSalaries triggers one company-salary sweep.
func (s *Server) crawlSalaries(w http.ResponseWriter, r *http.Request) {
	pages := s.pageCount(r, s.cfg.Crawl.DefaultSalaryPages)

	salaries, diag, err := s.crawler.RunSalaries(r.Context(), pages)
	if err != nil {
		s.logger.Error("salary crawl run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "crawl run could not be started")
		return
	}
	if salaries == nil {
		salaries = []ingest.CompanySalary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"salaries":    salaries,
		"diagnostics": diag,
	})
}

// pageCount reads the requested page count, falling back to the configured
// default and clamping to the configured maximum.
func (s *Server) pageCount(r *http.Request, def int) int {
	raw := r.URL.Query().Get("pages")
	if raw == "" {
		// The previous generation of the API called this parameter allpage.
		raw = r.URL.Query().Get("allpage")
	}
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if n > s.cfg.Crawl.MaxPages {
		return s.cfg.Crawl.MaxPages
	}
	return n
}
