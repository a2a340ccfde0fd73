// Package web serves a small read-only dashboard over the local task
// store and the pending sync batch.
package web

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lucas-viotti/personal-os/internal/sync"
	"github.com/lucas-viotti/personal-os/internal/task"
)

// Server handles dashboard HTTP requests.
type Server struct {
	router    *chi.Mux
	store     *task.Store
	batchFile *sync.BatchFile
	logger    *zap.Logger
}

// NewServer creates the dashboard server.
func NewServer(store *task.Store, batchFile *sync.BatchFile, logger *zap.Logger) *Server {
	s := &Server{
		store:     store,
		batchFile: batchFile,
		logger:    logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.healthCheck)
	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", s.getTasks)
		r.Get("/tasks/{name}", s.getTask)
		r.Get("/sync/batch", s.getBatch)
	})

	s.router = r
}

// ListenAndServe blocks serving the dashboard on the given address.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting dashboard", zap.String("address", addr))
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type taskView struct {
	Path          string `json:"path"`
	Title         string `json:"title"`
	Priority      string `json:"priority"`
	Status        string `json:"status"`
	DueDate       string `json:"due_date,omitempty"`
	NextAction    string `json:"next_action,omitempty"`
	NextActionDue string `json:"next_action_due,omitempty"`
	ProgressCount int    `json:"progress_count"`
}

func (s *Server) getTasks(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List()
	if err != nil {
		s.logger.Error("failed to list tasks", zap.Error(err))
		http.Error(w, "failed to list tasks", http.StatusInternalServerError)
		return
	}

	views := make([]taskView, 0, len(records))
	for _, rec := range records {
		views = append(views, taskView{
			Path:          rec.Path,
			Title:         rec.Title,
			Priority:      rec.Priority,
			Status:        string(rec.Status),
			DueDate:       rec.DueDate,
			NextAction:    rec.NextAction,
			NextActionDue: rec.NextActionDue,
			ProgressCount: len(rec.Progress),
		})
	}
	writeJSON(w, views)
}

type progressView struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

type taskDetailView struct {
	Path          string         `json:"path"`
	Title         string         `json:"title"`
	Priority      string         `json:"priority"`
	Status        string         `json:"status"`
	DueDate       string         `json:"due_date,omitempty"`
	NextAction    string         `json:"next_action,omitempty"`
	NextActionDue string         `json:"next_action_due,omitempty"`
	Progress      []progressView `json:"progress"`
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// Only bare *.md filenames resolve; no path components.
	if name != filepath.Base(name) || filepath.Ext(name) != ".md" {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	rec, err := s.store.Read(filepath.Join(s.store.Dir(), name))
	if err != nil {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	view := taskDetailView{
		Path:          rec.Path,
		Title:         rec.Title,
		Priority:      rec.Priority,
		Status:        string(rec.Status),
		DueDate:       rec.DueDate,
		NextAction:    rec.NextAction,
		NextActionDue: rec.NextActionDue,
		Progress:      make([]progressView, 0, len(rec.Progress)),
	}
	for _, entry := range rec.Progress {
		view.Progress = append(view.Progress, progressView{
			Date:    entry.Date.Format(task.DateFormat),
			Content: entry.Content,
		})
	}
	writeJSON(w, view)
}

func (s *Server) getBatch(w http.ResponseWriter, r *http.Request) {
	batch, err := s.batchFile.Load()
	if err != nil {
		s.logger.Error("failed to load batch", zap.Error(err))
		http.Error(w, "failed to load batch", http.StatusInternalServerError)
		return
	}
	if batch == nil {
		http.Error(w, "no pending sync batch", http.StatusNotFound)
		return
	}
	writeJSON(w, batch)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encoding error", http.StatusInternalServerError)
	}
}
