package http

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"spendwise/internal/auth"
	applog "spendwise/internal/log"
	"spendwise/internal/middleware/ratelimit"
	"spendwise/internal/middleware/security"
	"spendwise/internal/middleware/trace"
	"spendwise/internal/reports"
	"spendwise/internal/services"
	"spendwise/internal/sheets"
	appweb "spendwise/web"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers need. Sheets may be nil.
type Deps struct {
	Accounts       *auth.Service
	Sessions       *auth.SessionManager
	Categories     *services.CategoryService
	Transactions   *services.TransactionService
	Reports        *reports.Engine
	Sheets         sheets.TableWriter
	DB             Pinger
	Logger         *applog.Logger
	LoginRateLimit int
}

type Server struct {
	http.Server
	Deps

	views        *views
	detector     *security.Detector
	loginLimiter *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and wires every route.
func NewServer(addr string, d Deps) (*Server, error) {
	if d.Logger == nil {
		d.Logger = applog.New(applog.DefaultConfig())
	}

	v, err := parseViews(appweb.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		Deps:         d,
		views:        v,
		detector:     security.NewDetector(),
		loginLimiter: ratelimit.NewLimiter(ratelimit.Config{Requests: d.LoginRateLimit, Window: time.Minute}),
	}

	mux := http.NewServeMux()
	if err := s.routes(mux); err != nil {
		s.loginLimiter.Stop()
		return nil, err
	}

	tracer := trace.NewMiddleware(s.detector.ExtractClientIP, d.Logger)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	s.Server = http.Server{
		Addr:              addr,
		Handler:           tracer.Handler(headers.Handler(applog.Middleware(d.Logger.WithComponent(applog.ComponentHTTP))(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) error {
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(sub)))))

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	limitPOST := s.loginLimiter.Middleware(s.detector.ExtractClientIP, http.MethodPost)
	mux.Handle("GET /accounts/login/{$}", http.HandlerFunc(s.handleLoginForm))
	mux.Handle("POST /accounts/login/{$}", limitPOST(http.HandlerFunc(s.handleLogin)))
	mux.Handle("GET /accounts/signup/{$}", http.HandlerFunc(s.handleSignupForm))
	mux.Handle("POST /accounts/signup/{$}", limitPOST(http.HandlerFunc(s.handleSignup)))
	mux.HandleFunc("POST /accounts/logout/{$}", s.handleLogout)

	mux.Handle("GET /{$}", http.RedirectHandler("/dashboard/", http.StatusFound))

	private := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.protect(h))
	}

	private("GET /dashboard/{$}", s.handleDashboard)
	private("GET /chart-data/{$}", s.handleChartData)

	private("GET /categories/{$}", s.handleCategoryList)
	private("GET /categories/add/{$}", s.handleCategoryAddForm)
	private("POST /categories/add/{$}", s.handleCategoryAdd)
	private("GET /categories/{id}/edit/{$}", s.handleCategoryEditForm)
	private("POST /categories/{id}/edit/{$}", s.handleCategoryEdit)
	private("GET /categories/{id}/delete/{$}", s.handleCategoryDeleteConfirm)
	private("POST /categories/{id}/delete/{$}", s.handleCategoryDelete)

	private("GET /expenses/{$}", s.handleExpenseList)
	private("GET /expenses/add/{$}", s.handleExpenseAddForm)
	private("POST /expenses/add/{$}", s.handleExpenseAdd)
	private("GET /expenses/{id}/edit/{$}", s.handleExpenseEditForm)
	private("POST /expenses/{id}/edit/{$}", s.handleExpenseEdit)
	private("GET /expenses/{id}/delete/{$}", s.handleExpenseDeleteConfirm)
	private("POST /expenses/{id}/delete/{$}", s.handleExpenseDelete)

	private("GET /export/{$}", s.handleExport)
	private("POST /export/sheets/{$}", s.handleExportSheets)
	return nil
}

// protect requires a signed-in user and tags the request log with its id.
func (s *Server) protect(h http.HandlerFunc) http.Handler {
	tag := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := auth.UserFromContext(r.Context()); ok {
			r = r.WithContext(applog.WithUserID(r.Context(), u.ID))
		}
		h(w, r)
	})
	return auth.RequireUser(s.Sessions, s.Accounts)(security.NoStore(tag))
}

// Shutdown stops background work and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.loginLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// ListenAndServe treats a graceful shutdown as success.
func (s *Server) ListenAndServe() error {
	slog.Info("HTTP server listening", "addr", s.Addr)
	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.DB.Ping(ctx); err != nil {
			slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
