package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/studio-settings/internal/api"
	"github.com/eugenenazirov/studio-settings/internal/cache"
	"github.com/eugenenazirov/studio-settings/internal/config"
	"github.com/eugenenazirov/studio-settings/internal/features"
	"github.com/eugenenazirov/studio-settings/internal/settings"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	doc      *settings.Document
	features *features.View
	caches   *cache.Registry
	handler  *api.Handler
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// New initializes the application around an already-loaded settings
// snapshot. The snapshot is passed by reference to every component that
// needs it; nothing reads configuration through global state.
func New(cfg config.Config, doc *settings.Document, logger *zap.Logger) (*App, error) {
	registry, err := cache.NewRegistry(doc.Caches)
	if err != nil {
		return nil, fmt.Errorf("failed to build cache clients: %w", err)
	}

	view := features.NewView(doc.Features)
	handler := api.NewHandler(doc, view, registry)
	router := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	return &App{
		doc:      doc,
		features: view,
		caches:   registry,
		handler:  handler,
		router:   router,
		logger:   logger,
		server:   server,
	}, nil
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.Bool("certificates_enabled", a.features.Enabled("CERTIFICATES_ENABLED")),
			zap.Strings("caches", a.caches.Names()),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Router returns the root HTTP handler, primarily for tests.
func (a *App) Router() http.Handler {
	return a.router
}
