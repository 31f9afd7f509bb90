// Package api exposes the five paper access patterns over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lattermill/paperdex/internal/config"
	"github.com/lattermill/paperdex/query"
	"github.com/lattermill/paperdex/store"
)

// Server wires the query router to HTTP handlers.
type Server struct {
	router *query.Router
	cfg    *config.API
	log    *slog.Logger
}

// New creates an API server.
func New(router *query.Router, cfg *config.API, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		router: router,
		cfg:    cfg,
		log:    log,
	}
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/papers/recent", s.handleRecent)
	r.Get("/papers/author", s.handleAuthor)
	r.Get("/papers/id", s.handleByID)
	r.Get("/papers/daterange", s.handleDateRange)
	r.Get("/papers/search", s.handleSearch)

	return r
}

// response is the envelope every query endpoint returns.
type response struct {
	Results any `json:"results"`
	Count   int `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'category' parameter")
		return
	}
	limit, ok := s.parseLimit(w, r)
	if !ok {
		return
	}

	results, err := s.router.RecentInCategory(r.Context(), category, limit)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response{Results: results, Count: len(results)})
}

func (s *Server) handleAuthor(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'name' parameter")
		return
	}
	limit, ok := s.parseLimit(w, r)
	if !ok {
		return
	}

	results, err := s.router.ByAuthor(r.Context(), name, limit)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response{Results: results, Count: len(results)})
}

func (s *Server) handleByID(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'id' parameter")
		return
	}

	rec, err := s.router.ByID(r.Context(), id)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response{Results: []any{rec}, Count: 1})
}

func (s *Server) handleDateRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	start := q.Get("start")
	end := q.Get("end")
	if category == "" || start == "" || end == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'category', 'start', or 'end' parameter")
		return
	}

	results, err := s.router.DateRange(r.Context(), category, start, end)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response{Results: results, Count: len(results)})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	kw := r.URL.Query().Get("keyword")
	if kw == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'keyword' parameter")
		return
	}
	limit, ok := s.parseLimit(w, r)
	if !ok {
		return
	}

	results, err := s.router.ByKeyword(r.Context(), kw, limit)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response{Results: results, Count: len(results)})
}

// parseLimit reads the optional limit parameter. Absent means the configured
// default; present but non-numeric or non-positive is rejected before the
// backend is touched.
func (s *Server) parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return s.cfg.DefaultLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid 'limit' parameter")
		return 0, false
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	return limit, true
}

func (s *Server) writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "paper not found")
	case errors.Is(err, store.ErrInvalidArgument), errors.Is(err, store.ErrMalformedKey):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrBackendUnavailable):
		s.writeError(w, http.StatusServiceUnavailable, "backend unavailable")
	default:
		s.log.Error("query failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("write response", "error", err)
	}
}
