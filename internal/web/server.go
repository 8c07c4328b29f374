package web

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/form/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/metrics"
	"github.com/vbonduro/sitelog/internal/service"
)

type Server struct {
	service   *service.SiteService
	templates fs.FS
	mux       *http.ServeMux
	tmplFuncs template.FuncMap
	decoder   *form.Decoder
	logger    *slog.Logger
}

func NewServer(svc *service.SiteService, tmpl fs.FS, logger *slog.Logger) *Server {
	decoder := form.NewDecoder()
	// Form keys match the JSON field names.
	decoder.SetTagName("json")

	s := &Server{
		service:   svc,
		templates: tmpl,
		mux:       http.NewServeMux(),
		decoder:   decoder,
		logger:    logger,
		tmplFuncs: template.FuncMap{
			"yesno": func(b bool) string {
				if b {
					return "Yes"
				}
				return "No"
			},
			"stamp": func(t time.Time) string { return t.Format("2 Jan 2006 15:04") },
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/projects", http.StatusSeeOther)
	})
	s.mux.Handle("GET /metrics", promhttp.Handler())

	register(s, resource[domain.Project]{
		name:   "projects",
		list:   func(listParams) []domain.Project { return s.service.ListProjects() },
		get:    s.service.GetProject,
		save:   s.service.SaveProject,
		delete: s.service.DeleteProject,
	})
	register(s, resource[domain.Task]{
		name:   "tasks",
		list:   func(q listParams) []domain.Task { return s.service.ListTasks(q.criteria) },
		get:    s.service.GetTask,
		save:   s.service.SaveTask,
		delete: s.service.DeleteTask,
	})
	register(s, resource[domain.DiaryEntry]{
		name:   "diary",
		list:   func(q listParams) []domain.DiaryEntry { return s.service.ListDiary(q.criteria) },
		get:    s.service.GetDiaryEntry,
		save:   s.service.SaveDiaryEntry,
		delete: s.service.DeleteDiaryEntry,
	})
	register(s, resource[domain.Variation]{
		name:   "variations",
		list:   func(q listParams) []domain.Variation { return s.service.ListVariations(q.criteria) },
		get:    s.service.GetVariation,
		save:   s.service.SaveVariation,
		delete: s.service.DeleteVariation,
	})
	register(s, resource[domain.Subcontractor]{
		name:   "subbies",
		list:   func(listParams) []domain.Subcontractor { return s.service.ListSubbies() },
		get:    s.service.GetSubbie,
		save:   s.service.SaveSubbie,
		delete: s.service.DeleteSubbie,
	})
	register(s, resource[domain.Delivery]{
		name:   "deliveries",
		list:   func(q listParams) []domain.Delivery { return s.service.ListDeliveries(q.criteria) },
		get:    s.service.GetDelivery,
		save:   s.service.SaveDelivery,
		delete: s.service.DeleteDelivery,
	})
	register(s, resource[domain.Inspection]{
		name:   "inspections",
		list:   func(q listParams) []domain.Inspection { return s.service.ListInspections(q.criteria) },
		get:    s.service.GetInspection,
		save:   s.service.SaveInspection,
		delete: s.service.DeleteInspection,
	})

	for _, name := range service.PhotoCollections {
		s.mux.HandleFunc("POST /api/"+name+"/{id}/photos", s.handleAttachPhotos(name))
		s.mux.HandleFunc("DELETE /api/"+name+"/{id}/photos/{photoID}", s.handleDetachPhoto(name))
	}

	s.mux.HandleFunc("POST /api/projects/{id}/geocode", s.handleGeocodeProject)
	s.mux.HandleFunc("GET /api/projects/{id}/overview", s.handleProjectOverview)
	s.mux.HandleFunc("GET /api/projects/{id}/ccc", s.handleProjectCCC)
	s.mux.HandleFunc("GET /api/projects/{id}/map", s.handleProjectMap)
	s.mux.HandleFunc("GET /api/projects/{id}/subbies", s.handleProjectSubbies)

	s.mux.HandleFunc("GET /api/upcoming", s.handleUpcoming)
	s.mux.HandleFunc("GET /api/reports/job", s.handleJobReportJSON)
	s.mux.HandleFunc("GET /api/reports/invoice", s.handleInvoiceJSON)
	s.mux.HandleFunc("GET /reports/job", s.handleJobReportPage)
	s.mux.HandleFunc("GET /reports/invoice", s.handleInvoiceText)

	s.mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	s.mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)
	s.mux.HandleFunc("POST /api/settings/theme", s.handleToggleTheme)

	s.mux.HandleFunc("GET /api/export", s.handleExport)
	s.mux.HandleFunc("POST /api/import", s.handleImport)
	s.mux.HandleFunc("POST /api/wipe", s.handleWipe)
	s.mux.HandleFunc("POST /api/demo", s.handleDemo)
	s.mux.HandleFunc("GET /api/backups", s.handleListBackups)
	s.mux.HandleFunc("POST /api/backups", s.handleBackup)
	s.mux.HandleFunc("POST /api/backups/restore", s.handleRestore)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"frame-src https://www.openstreetmap.org; "+
				"connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		path := metrics.PathLabel(r.URL.Path)
		metrics.RequestTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		metrics.RequestDuration.WithLabelValues(r.Method, path).Observe(elapsed.Seconds())
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "base", data)
}
