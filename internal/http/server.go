package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"momodash/internal/auth"
	applog "momodash/internal/log"
	"momodash/internal/middleware/ratelimit"
	"momodash/internal/middleware/security"
	"momodash/internal/middleware/trace"
	"momodash/internal/services"
	appweb "momodash/web"
)

// ReadyCheck is one dependency probed by /readyz.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Config wires the server to the services it exposes.
type Config struct {
	Addr            string
	Logger          *applog.Logger
	Dashboard       *services.DashboardService
	Login           *services.LoginService
	Sessions        *auth.SessionCodec
	LiveMinInterval time.Duration
	RateLimit       ratelimit.Config
	ReadyChecks     []ReadyCheck
	// TrustedProxies are extra CIDRs whose forwarding headers are believed,
	// on top of loopback and the private ranges.
	TrustedProxies []string
}

type Server struct {
	http.Server
	templates *template.Template
	dashboard *services.DashboardService
	login     *services.LoginService
	sessions  *auth.SessionCodec
	detector  *security.Detector
	limiter   *ratelimit.Limiter
	tracer    *trace.Middleware
	liveMin   time.Duration
	ready     []ReadyCheck
	started   time.Time

	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and configures every route.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Dashboard == nil || cfg.Login == nil || cfg.Sessions == nil {
		return nil, errors.New("http: dashboard, login and session codec are required")
	}
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	liveMin := cfg.LiveMinInterval
	if liveMin <= 0 {
		liveMin = 10 * time.Second
	}

	detector := security.NewDetector()
	for _, cidr := range cfg.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, fmt.Errorf("trusted proxies: %w", err)
		}
	}
	s := &Server{
		templates: t,
		dashboard: cfg.Dashboard,
		login:     cfg.Login,
		sessions:  cfg.Sessions,
		detector:  detector,
		limiter:   ratelimit.NewLimiter(cfg.RateLimit),
		tracer:    trace.NewMiddleware(detector.ExtractClientIP),
		liveMin:   liveMin,
		ready:     cfg.ReadyChecks,
		started:   time.Now(),
	}

	r := mux.NewRouter()
	r.Use(
		applog.Middleware(logger.WithComponent(applog.ComponentHTTP)),
		s.tracer.Middleware,
		detector.Middleware,
		security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware,
		s.withSession,
	)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	r.PathPrefix("/static/").Handler(security.StaticAssetMiddleware(3600)(static))

	r.HandleFunc("/login", s.handleLoginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	r.Handle("/", s.requirePage(http.HandlerFunc(s.handleIndex))).Methods(http.MethodGet)

	limited := s.limiter.Middleware(detector.ExtractClientIP)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(security.NoStore, s.requireAPI)
	api.HandleFunc("/options", s.handleOptions).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/groups/{dimension}", s.handleGroups).Methods(http.MethodGet)
	api.HandleFunc("/transactions", s.handleTransactions).Methods(http.MethodGet)
	api.Handle("/export.xlsx", limited(http.HandlerFunc(s.handleExport))).Methods(http.MethodGet)

	r.Handle("/ws/live", s.requireAPI(limited(http.HandlerFunc(s.handleLive)))).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ErrorJSON(http.StatusNotFound, "not found").Write(w)
	})

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// Shutdown stops the rate limiter janitor and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
