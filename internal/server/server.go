// Package server exposes the browser form UI over the pipeline.
package server

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/rghosal/cvpilot/internal/config"
	"github.com/rghosal/cvpilot/internal/pipeline"
)

//go:embed templates
var templatesFS embed.FS

// Parsed once at startup; the template set is static.
var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// App collects all data for running the webserver.
type App struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	logger   *slog.Logger

	// latest holds the outputs of the most recent successful run, shown on
	// the result page and served by the download routes. Guarded by mu; the
	// clear action resets it.
	mu     sync.Mutex
	latest *pipeline.RunResult
}

// New wires the web app.
func New(cfg *config.Config, pl *pipeline.Pipeline, logger *slog.Logger) *App {
	return &App{
		cfg:      cfg,
		pipeline: pl,
		logger:   logger,
	}
}

// Handler builds the gin engine with all routes registered.
func (a *App) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	a.setupHandlers(r)
	return r
}

// Run starts the server, returning a fatal error.
func (a *App) Run() error {
	a.logger.Info("server starting", "addr", a.cfg.Server.Addr)
	return http.ListenAndServe(a.cfg.Server.Addr, a.Handler())
}

func (a *App) setLatest(res *pipeline.RunResult) {
	a.mu.Lock()
	a.latest = res
	a.mu.Unlock()
}

func (a *App) getLatest() *pipeline.RunResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latest
}
