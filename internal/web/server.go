// Package web exposes the viewer core over a JSON API so GUI shells and
// scripts can drive it: load a page, get its section outline, run find or
// filter searches, query the view history, and read or patch the persisted
// viewer settings.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/betterman/manviewer/internal/history"
	"github.com/betterman/manviewer/internal/loader"
	"github.com/betterman/manviewer/internal/manpage"
	"github.com/betterman/manviewer/internal/settings"
)

// DocumentLoader abstracts page loading so handlers can be tested without
// a man binary.
type DocumentLoader interface {
	Load(ctx context.Context, input string) (loader.Document, error)
}

type Server struct {
	router       chi.Router
	loader       DocumentLoader
	history      *history.Store
	settingsPath string
	logger       *slog.Logger
}

func NewServer(dl DocumentLoader, hist *history.Store, settingsPath string, logger *slog.Logger) *Server {
	s := &Server{
		loader:       dl,
		history:      hist,
		settingsPath: settingsPath,
		logger:       logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, s)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/document", s.handleDocument)
	r.Get("/api/document/{topic}/sections", s.handleSections)
	r.Get("/api/search", s.handleSearch)
	r.Get("/api/history/search", s.handleHistorySearch)
	r.Get("/api/history/recent", s.handleHistoryRecent)
	r.Get("/api/settings", s.handleGetSettings)
	r.Patch("/api/settings", s.handlePatchSettings)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// documentResponse bundles everything the host needs to display a page:
// the loaded document, its line sequence, and the section outline.
type documentResponse struct {
	Document loader.Document  `json:"document"`
	Lines    []string         `json:"lines"`
	Anchors  []manpage.Anchor `json:"anchors"`
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := s.loader.Load(r.Context(), req.Input)
	if err != nil {
		var notFound *loader.NotFoundError
		switch {
		case errors.As(err, &notFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, loader.ErrEmptyQuery):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("load document", "input", req.Input, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	lines := manpage.NormalizeLines(doc.RawText)
	anchors := manpage.DetectSections(lines)

	if s.history != nil {
		section, topic, _ := loader.ParseQuery(doc.Query)
		if err := s.history.Record(r.Context(), topic, section, doc.Title, doc.RawText); err != nil {
			s.logger.Warn("record history", "topic", topic, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, documentResponse{Document: doc, Lines: lines, Anchors: anchors})
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")

	doc, err := s.loader.Load(r.Context(), topic)
	if err != nil {
		var notFound *loader.NotFoundError
		if errors.As(err, &notFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("load document", "input", topic, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	anchors := manpage.DetectSections(manpage.NormalizeLines(doc.RawText))
	writeJSON(w, http.StatusOK, map[string]any{"topic": doc.Query, "anchors": anchors})
}

type searchResponse struct {
	Query       string               `json:"query"`
	Mode        string               `json:"mode"`
	Matches     []manpage.Match      `json:"matches"`
	FilterLines []manpage.FilterLine `json:"filterLines,omitempty"`
	Capped      bool                 `json:"capped"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	query := r.URL.Query().Get("q")
	mode := r.URL.Query().Get("mode")
	caseSensitive := r.URL.Query().Get("case") == "1"
	if topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	if mode == "" {
		mode = settings.SearchModeFind
	}
	if mode != settings.SearchModeFind && mode != settings.SearchModeFilter {
		writeError(w, http.StatusBadRequest, "mode must be find or filter")
		return
	}

	doc, err := s.loader.Load(r.Context(), topic)
	if err != nil {
		var notFound *loader.NotFoundError
		if errors.As(err, &notFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("load document", "input", topic, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	lines := manpage.NormalizeLines(doc.RawText)
	matches, capped := manpage.Search(lines, query, caseSensitive)

	resp := searchResponse{
		Query:   query,
		Mode:    mode,
		Matches: matches,
		Capped:  capped,
	}
	if mode == settings.SearchModeFilter {
		resp.FilterLines = manpage.AggregateFilterLines(lines, matches)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistorySearch(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history unavailable")
		return
	}
	query := r.URL.Query().Get("q")
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	resp, err := s.history.Search(r.Context(), query, limit, offset)
	if err != nil {
		s.logger.Error("history search", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistoryRecent(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history unavailable")
		return
	}
	entries, err := s.history.Recent(r.Context(), parseIntQuery(r, "limit", 20))
	if err != nil {
		s.logger.Error("history recent", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": entries})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, settings.Load(s.settingsPath))
}

func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var patch settings.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings patch")
		return
	}
	merged := settings.Merge(settings.Load(s.settingsPath), patch)
	if err := settings.Save(s.settingsPath, merged); err != nil {
		s.logger.Error("save settings", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, merged)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
