package http

import (
	"context"

	domain "seo_auditor/internal/domain/adaptors"
	"seo_auditor/internal/http/handlers"
	"seo_auditor/internal/http/middleware"

	"github.com/go-chi/chi/v5"
)

// Dependencies are the services the API routes delegate to.
type Dependencies struct {
	Analyzer handlers.PageAnalyzer
	Auditor  handlers.SiteAuditor
	Store    domain.AuditStore
	Checks   map[string]handlers.ReadinessCheck
}

func initRoutes(_ context.Context, r *Router, deps Dependencies) {
	r.httpRouter.Use(middleware.MetricsMiddleware)
	r.httpRouter.Use(middleware.RequestIDLoggerMiddleware(r.log))
	r.httpRouter.Use(middleware.CORS)
	// Routes
	r.httpRouter.Get("/ready", handlers.NewReadyHandler(deps.Checks, r.log).Handle)
	r.httpRouter.Post("/analyze", handlers.NewPageAnalysisHandler(deps.Analyzer, r.log).Handle)
	r.httpRouter.Post("/audit", handlers.NewAuditHandler(deps.Auditor, r.log).Handle)

	if deps.Store == nil {
		return
	}
	audits := handlers.NewAuditsHandler(deps.Store, r.log)
	r.httpRouter.Route("/audits", func(ar chi.Router) {
		ar.Get("/", audits.List)
		ar.Get("/{id}", audits.Get)
		ar.Get("/{id}/export", audits.Export)
	})
}
