package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"seo_auditor/internal/application"
	"seo_auditor/internal/application/config"
	"seo_auditor/internal/http/handlers"
	"seo_auditor/internal/pkg/errors"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

type Router struct {
	httpRouter *chi.Mux
	log        *log.Logger
}

func NewRouter(ctx context.Context, log *log.Logger, deps Dependencies) *Router {
	router := &Router{
		httpRouter: chi.NewRouter(),
		log:        log,
	}
	initRoutes(ctx, router, deps)
	return router
}

func (r *Router) Handler() *chi.Mux {
	return r.httpRouter
}

// Init serves the API, metrics and pprof endpoints until ctx is done or the
// process receives SIGINT/SIGTERM, then shuts them down.
func Init(ctx context.Context, log *log.Logger, appCfg *config.AppConfig, app *application.App) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	cfg, err := NewHTTPServerConfig()
	if err != nil {
		return errors.Wrap(err, `failed to load http server config`)
	}

	store, err := app.OpenStore(ctx)
	if err != nil {
		return errors.Wrap(err, `failed to open audit store`)
	}

	checks := map[string]handlers.ReadinessCheck{}
	for name, check := range app.ReadinessChecks() {
		checks[name] = check
	}

	router := NewRouter(ctx, log, Dependencies{
		Analyzer: app,
		Auditor:  app,
		Store:    store,
		Checks:   checks,
	})

	// Create metrics server
	metricsServer := NewMetricsServer(appCfg.MetricsHost, cfg.Timeouts.ShutdownWait, log)
	go serve(log, metricsServer)

	// Create HTTP server; in-flight requests finish during shutdown
	httpServer := NewHttpServer(context.WithoutCancel(ctx), cfg, router.httpRouter, log)
	go serve(log, httpServer)

	// Create pprof server (uses default http.DefaultServeMux)
	pprofServer := NewPprofServer(appCfg.PprofHost, cfg.Timeouts.ShutdownWait, log)
	go serve(log, pprofServer)

	select {
	case <-sigs:
	case <-ctx.Done():
	}

	return errors.Join(
		httpServer.Stop(),
		pprofServer.Stop(),
		metricsServer.Stop(),
	)
}

func serve(log *log.Logger, s *Server) {
	if err := s.Start(); err != nil {
		log.WithError(err).WithField("server", s.name).Error(`server stopped unexpectedly`)
	}
}
