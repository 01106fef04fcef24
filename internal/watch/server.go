package watch

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	ferrors "github.com/biginformatics/docsite/internal/foundation/errors"
	"github.com/biginformatics/docsite/internal/metrics"
)

const defaultHistoryLimit = 20

// Handler returns the watch server routes.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Get("/config", s.handleConfig)
	r.Get("/status", s.handleStatus)
	r.Get("/history", s.handleHistory)
	r.Post("/reload", s.handleReload)
	r.Post("/links/check", s.handleCheckLinks)
	r.Method(http.MethodGet, "/metrics", metrics.HTTPHandler(s.opts.Registry))
	return r
}

// handleHealth is 200 while a good resolution is being served.
func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if _, err := s.Current(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleConfig(w http.ResponseWriter, r *http.Request) {
	cur, err := s.Current()
	if err != nil {
		s.errAdapter.WriteErrorResponse(w, r, err)
		return
	}

	var (
		data        []byte
		contentType string
	)
	switch r.URL.Query().Get("format") {
	case "", "json":
		data, err = cur.Resolved.JSON()
		contentType = "application/json"
	case "yaml":
		data, err = cur.Resolved.YAML()
		contentType = "application/yaml"
	default:
		s.errAdapter.WriteErrorResponse(w, r, ferrors.ValidationError("format must be json or yaml").Build())
		return
	}
	if err != nil {
		s.errAdapter.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryInternal, "encode configuration").Build())
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("ETag", strconv.Quote(cur.Resolved.Snapshot()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Status())
}

func (s *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.opts.History == nil {
		s.errAdapter.WriteErrorResponse(w, r, ferrors.NotFoundError("history is not enabled").Build())
		return
	}
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.errAdapter.WriteErrorResponse(w, r, ferrors.ValidationError("limit must be a positive integer").
				WithContext("limit", v).Build())
			return
		}
		limit = n
	}
	entries, err := s.opts.History.List(r.Context(), limit)
	if err != nil {
		s.errAdapter.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryStorage, "list history").Build())
		return
	}
	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry{
			ID:         e.ID,
			ConfigPath: e.ConfigPath,
			Snapshot:   e.Snapshot,
			Outcome:    string(e.Outcome),
			ErrorKind:  e.ErrorKind,
			Error:      e.Error,
			DurationMS: float64(e.Duration.Microseconds()) / 1000,
			CreatedAt:  e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleReload resolves immediately instead of waiting for a file event.
func (s *Service) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		s.errAdapter.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Status())
}

func (s *Service) handleCheckLinks(w http.ResponseWriter, r *http.Request) {
	if _, err := s.CheckLinks(r.Context()); err != nil {
		s.errAdapter.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Status().LinkCheck)
}

type historyEntry struct {
	ID         string    `json:"id"`
	ConfigPath string    `json:"configPath"`
	Snapshot   string    `json:"snapshot,omitempty"`
	Outcome    string    `json:"outcome"`
	ErrorKind  string    `json:"errorKind,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMS float64   `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
