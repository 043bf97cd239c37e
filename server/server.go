package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"golang.org/x/time/rate"

	"github.com/finews/newsbrief/pkg/config"
	"github.com/finews/newsbrief/pkg/domain"
	"github.com/finews/newsbrief/pkg/feed"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/database.go -pkg mocks -skip-ensure -fmt goimports . Database
//go:generate moq -out mocks/scheduler.go -pkg mocks -skip-ensure -fmt goimports . Scheduler

//go:embed templates
var templatesFS embed.FS

// page templates, each one is parsed together with base.html
const (
	pageIndex   = "index.html"
	pageNews    = "news.html"
	pagePrivacy = "privacy.html"
	pageTerms   = "terms.html"
)

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	db        Database
	scheduler Scheduler
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle

	pageTemplates  map[string]*template.Template
	generator      *feed.Generator
	refreshLimiter *rate.Limiter    // authorized cycles, shared by all callers
	failedRefresh  *failedAttempts // wrong-token requests, per client address
}

// Database interface for server operations
type Database interface {
	ListNews(ctx context.Context, limit, offset int) ([]domain.NewsRecord, error)
	CountNews(ctx context.Context) (int, error)
	GetNews(ctx context.Context, id int64) (*domain.NewsRecord, error)
	Ping(ctx context.Context) error
}

// Scheduler interface for on-demand operations
type Scheduler interface {
	RunNow(ctx context.Context) (domain.CycleReport, error)
	LastReport() (domain.CycleReport, bool)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() config.ServerConfig
}

// New initializes a new server instance
func New(cfg ConfigProvider, db Database, scheduler Scheduler, version string, debug bool) *Server {
	srvCfg := cfg.GetServerConfig()

	perMinute := srvCfg.TriggerRate
	if perMinute <= 0 {
		perMinute = 6
	}

	s := &Server{
		config:         cfg,
		db:             db,
		scheduler:      scheduler,
		version:        version,
		debug:          debug,
		router:         routegroup.New(http.NewServeMux()),
		pageTemplates:  mustParsePages(),
		generator:      feed.NewGenerator(srvCfg.BaseURL, srvCfg.SiteTitle),
		refreshLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		failedRefresh:  newFailedAttempts(perMinute),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	srvCfg := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", srvCfg.Listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              srvCfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       srvCfg.Timeout,
		WriteTimeout:      srvCfg.Timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("newsbrief", "finews", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	// web pages
	s.router.HandleFunc("GET /{$}", s.indexHandler)
	s.router.HandleFunc("GET /news/{id}", s.newsHandler)
	s.router.HandleFunc("GET /privacy", s.privacyHandler)
	s.router.HandleFunc("GET /privacidade", s.privacyHandler)
	s.router.HandleFunc("GET /terms", s.termsHandler)
	s.router.HandleFunc("GET /termos", s.termsHandler)

	// crawlers and feed readers
	s.router.HandleFunc("GET /robots.txt", s.robotsHandler)
	s.router.HandleFunc("GET /sitemap.xml", s.sitemapHandler)
	s.router.HandleFunc("GET /ads.txt", s.adsHandler)
	s.router.HandleFunc("GET /rss", s.rssHandler)

	// API routes
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /news", s.listNewsHandler)
		r.HandleFunc("GET /refresh", s.refreshHandler)
	})
}

// mustParsePages parses every page template with the shared layout.
// Templates are embedded, so a parse error is a build defect.
func mustParsePages() map[string]*template.Template {
	pages := map[string]*template.Template{}
	for _, name := range []string{pageIndex, pageNews, pagePrivacy, pageTerms} {
		pages[name] = template.Must(template.New(name).Funcs(templateFuncs).
			ParseFS(templatesFS, "templates/base.html", "templates/"+name))
	}
	return pages
}

// respondWithError logs the error and sends a plain text error response
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		log.Printf("[ERROR] %s: %v", message, err)
	}
	http.Error(w, message, code)
}
