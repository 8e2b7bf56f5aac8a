package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/remoteready/internal/domain"
	apimw "github.com/hamed0406/remoteready/internal/httpapi/middleware"
	"github.com/hamed0406/remoteready/internal/repo"
	"github.com/hamed0406/remoteready/internal/runner"
)

// RunStarter is satisfied by *runner.Runner.
type RunStarter interface {
	Start(ctx context.Context) <-chan runner.Event
}

type progress struct {
	Running   bool   `json:"running"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Current   string `json:"current,omitempty"`
}

type Server struct {
	Logger  *zap.Logger
	Reports repo.ReportStore
	Runs    RunStarter

	// base outlives individual requests; runs started over HTTP stop when
	// it is cancelled.
	base context.Context

	mu   sync.Mutex
	prog progress
	done chan struct{}
}

func NewServer(ctx context.Context, l *zap.Logger, reports repo.ReportStore, runs RunStarter) *Server {
	return &Server{Logger: l, Reports: reports, Runs: runs, base: ctx}
}

func (s *Server) Router(keys apimw.Keys, runRPM, runBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-API-Key"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/latest", s.handleLatest)
		r.Get("/reports/latest.txt", s.handleLatestText)
		r.Get("/reports/{id}", s.handleGetReport)
		r.Get("/run", s.handleRunStatus)
		r.With(apimw.RequireKey(keys), apimw.RateLimit(runRPM, runBurst)).Post("/run", s.handleStartRun)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type reportView struct {
	*domain.Report
	Overall domain.Overall `json:"overall"`
}

func (s *Server) latest(w http.ResponseWriter, r *http.Request) *domain.Report {
	rep, err := s.Reports.Latest(r.Context())
	if err != nil {
		s.Logger.Warn("latest_report_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load report")
		return nil
	}
	if rep == nil {
		writeError(w, http.StatusNotFound, "no report yet")
		return nil
	}
	return rep
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	if rep := s.latest(w, r); rep != nil {
		writeJSON(w, http.StatusOK, reportView{Report: rep, Overall: rep.Overall()})
	}
}

func (s *Server) handleLatestText(w http.ResponseWriter, r *http.Request) {
	if rep := s.latest(w, r); rep != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(rep.Text()))
	}
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := domain.ReportID(chi.URLParam(r, "id"))
	rep, err := s.Reports.Get(r.Context(), id)
	if err != nil {
		s.Logger.Warn("get_report_error", zap.String("report_id", string(id)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load report")
		return
	}
	if rep == nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	writeJSON(w, http.StatusOK, reportView{Report: rep, Overall: rep.Overall()})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := repo.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}
	list, err := s.Reports.List(r.Context(), limit)
	if err != nil {
		s.Logger.Warn("list_reports_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list error")
		return
	}
	if list == nil {
		list = []repo.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p := s.prog
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

// handleStartRun starts one run in the background. Only one run may be in
// flight; the finished report is read back through /api/reports/latest.
func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.prog.Running {
		p := s.prog
		s.mu.Unlock()
		writeJSON(w, http.StatusConflict, p)
		return
	}
	s.prog = progress{Running: true}
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	events := s.Runs.Start(s.base)
	go func() {
		defer close(done)
		for ev := range events {
			s.mu.Lock()
			switch ev.Kind {
			case runner.Started:
				s.prog.Total = ev.Total
				s.prog.Current = ev.Label
			case runner.Completed:
				s.prog.Completed = ev.Index + 1
			case runner.Finished:
				s.prog.Running = false
				s.prog.Current = ""
			}
			s.mu.Unlock()
		}
		s.mu.Lock()
		s.prog.Running = false
		s.mu.Unlock()
	}()

	s.Logger.Info("run_requested", zap.String("remote", r.RemoteAddr))
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// Wait blocks until the run started over HTTP, if any, has finished.
func (s *Server) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}
