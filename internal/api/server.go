// Package api exposes the read-only HTTP interface for the dashboard.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/epiwatch/covidsnap/internal/config"
	"github.com/epiwatch/covidsnap/internal/record"
	"github.com/epiwatch/covidsnap/internal/store"
	"github.com/epiwatch/covidsnap/internal/telemetry"
)

// Server wires HTTP handlers to the snapshot store.
type Server struct {
	router chi.Router
	store  *store.Store
	cfg    config.Config
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(st *store.Store, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:  st,
		cfg:    cfg,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(timeoutMiddleware(30 * time.Second))
	r.Use(telemetry.Middleware)
	if cfg.Auth.Enabled {
		r.Use(apiKeyMiddleware(cfg.Auth.APIKey))
	}

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/snapshots", s.listSnapshots)
		r.Get("/snapshots/latest", s.latestSnapshot)
		r.Route("/snapshots/{date}", func(r chi.Router) {
			r.Get("/", s.getSnapshot)
			r.Get("/categories", s.getCategories)
			r.Get("/regions", s.getRegions)
		})
		r.Get("/series", s.getSeries)
	})

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

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	if s.store.Len() == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "no snapshots loaded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) listSnapshots(w http.ResponseWriter, _ *http.Request) {
	keys := s.store.Keys()
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": keys})
}

func (s *Server) latestSnapshot(w http.ResponseWriter, _ *http.Request) {
	key, err := s.store.Latest()
	if err != nil {
		writeError(w, http.StatusNotFound, "no snapshots loaded")
		return
	}
	records, err := s.store.Snapshot(key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "snapshot disappeared")
		return
	}
	writeJSON(w, http.StatusOK, snapshotResponse{Date: key, Records: records})
}

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	records, err := s.store.Snapshot(date)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	if r.URL.Query().Get("group") == "category" {
		writeJSON(w, http.StatusOK, groupedResponse{Date: date, Groups: store.GroupByCategory(records)})
		return
	}
	writeJSON(w, http.StatusOK, snapshotResponse{Date: date, Records: records})
}

func (s *Server) getCategories(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	records, err := s.store.Snapshot(date)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	categories := make([]categoryTotal, 0)
	for _, name := range store.Categories(records) {
		categories = append(categories, categoryTotal{
			Name:  name,
			Total: store.CategoryTotal(records, name),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "categories": categories})
}

func (s *Server) getRegions(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	records, err := s.store.Snapshot(date)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	regional := store.Regional(records, s.cfg.Data.RegionMarker)
	total := 0
	for _, rec := range regional {
		total += rec.Count
	}
	if regional == nil {
		regional = []record.Record{}
	}
	writeJSON(w, http.StatusOK, regionsResponse{Date: date, Total: total, Records: regional})
}

func (s *Server) getSeries(w http.ResponseWriter, r *http.Request) {
	var regions []string
	if raw := r.URL.Query().Get("regions"); raw != "" {
		for _, region := range strings.Split(raw, ",") {
			if region = strings.TrimSpace(region); region != "" {
				regions = append(regions, region)
			}
		}
	}
	series := s.store.Series(s.cfg.Data.RegionMarker, regions...)
	writeJSON(w, http.StatusOK, map[string]any{"series": series})
}

type snapshotResponse struct {
	Date    string          `json:"date"`
	Records []record.Record `json:"records"`
}

type groupedResponse struct {
	Date   string        `json:"date"`
	Groups []store.Group `json:"groups"`
}

type regionsResponse struct {
	Date    string          `json:"date"`
	Total   int             `json:"total"`
	Records []record.Record `json:"records"`
}

type categoryTotal struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

func apiKeyMiddleware(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				key = r.URL.Query().Get("api_key")
			}
			if key != expected {
				writeError(w, http.StatusForbidden, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type requestIDKey struct{}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
