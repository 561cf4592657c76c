// Package api exposes the stored jobs over HTTP as a small read-and-triage
// JSON API.
//
// Routes:
//
//	GET  /healthz                          → liveness probe
//	GET  /jobs                             → list jobs (query: source, remote, bookmarked, include_hidden, limit)
//	POST /jobs/{fingerprint}/hide          → hide a job
//	POST /jobs/{fingerprint}/unhide        → unhide a job
//	POST /jobs/{fingerprint}/bookmark      → bookmark a job
//	POST /jobs/{fingerprint}/unbookmark    → remove a bookmark
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jobsift/jobsift/internal/model"
)

// Server serves the triage API over a job store.
type Server struct {
	store  model.Store
	logger *slog.Logger
}

// NewServer returns a Server backed by store.
func NewServer(store model.Store, logger *slog.Logger) *Server {
	return &Server{store: store, logger: logger}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", s.listJobs)
		r.Post("/{fingerprint}/hide", s.setHidden(true))
		r.Post("/{fingerprint}/unhide", s.setHidden(false))
		r.Post("/{fingerprint}/bookmark", s.setBookmarked(true))
		r.Post("/{fingerprint}/unbookmark", s.setBookmarked(false))
	})

	return r
}

// jobJSON is the wire shape for one job.
type jobJSON struct {
	Fingerprint string     `json:"fingerprint"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	URL         string     `json:"url"`
	Location    string     `json:"location"`
	Source      string     `json:"source"`
	Remote      bool       `json:"remote"`
	SalaryMin   *float64   `json:"salaryMin,omitempty"`
	SalaryMax   *float64   `json:"salaryMax,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	PostedAt    *time.Time `json:"postedAt,omitempty"`
	FirstSeen   *time.Time `json:"firstSeen,omitempty"`
	LastSeen    time.Time  `json:"lastSeen"`
	TimesSeen   int        `json:"timesSeen"`
	RepostCount int        `json:"repostCount"`
	Hidden      bool       `json:"hidden"`
	Bookmarked  bool       `json:"bookmarked"`
}

func toJobJSON(j model.Job) jobJSON {
	return jobJSON{
		Fingerprint: j.Fingerprint,
		Title:       j.Title,
		Company:     j.Company,
		URL:         j.URL,
		Location:    j.Location,
		Source:      j.Source,
		Remote:      j.Remote,
		SalaryMin:   j.SalaryMin,
		SalaryMax:   j.SalaryMax,
		Currency:    j.Currency,
		PostedAt:    j.PostedAt,
		FirstSeen:   j.FirstSeen,
		LastSeen:    j.LastSeen,
		TimesSeen:   j.TimesSeen,
		RepostCount: j.RepostCount,
		Hidden:      j.Hidden,
		Bookmarked:  j.Bookmarked,
	}
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	q := model.JobQuery{
		Source:         r.URL.Query().Get("source"),
		RemoteOnly:     r.URL.Query().Get("remote") == "true",
		BookmarkedOnly: r.URL.Query().Get("bookmarked") == "true",
		IncludeHidden:  r.URL.Query().Get("include_hidden") == "true",
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		q.Limit = limit
	}

	jobs, err := s.store.ListJobs(r.Context(), q)
	if err != nil {
		s.logger.Error("list jobs failed", "error", err)
		writeError(w, http.StatusInternalServerError, "listing jobs failed")
		return
	}

	out := make([]jobJSON, len(jobs))
	for i, j := range jobs {
		out[i] = toJobJSON(j)
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": out, "count": len(out)})
}

func (s *Server) setHidden(hidden bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fp := chi.URLParam(r, "fingerprint")
		if err := s.store.SetHidden(r.Context(), fp, hidden); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"fingerprint": fp, "hidden": hidden})
	}
}

func (s *Server) setBookmarked(bookmarked bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fp := chi.URLParam(r, "fingerprint")
		if err := s.store.SetBookmarked(r.Context(), fp, bookmarked); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"fingerprint": fp, "bookmarked": bookmarked})
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
