package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"seo_auditor/internal/application"
	"seo_auditor/internal/domain/models"
	"seo_auditor/internal/http/middleware"
	"seo_auditor/internal/pkg/errors"
	"seo_auditor/internal/service"

	log "github.com/sirupsen/logrus"
)

type SiteAuditor interface {
	AuditSite(ctx context.Context, site string) (*models.Audit, error)
}

type AuditHandler struct {
	service SiteAuditor
	log     *log.Logger
}

type AuditRequest struct {
	SiteURL string `json:"site_url"`
}

// Validate normalizes the site url in place before checking it.
func (r *AuditRequest) Validate() error {
	r.SiteURL = application.NormalizeSiteURL(r.SiteURL)
	return application.ValidateURL(r.SiteURL)
}

type AuditResponse struct {
	Summary models.AuditSummary `json:"summary"`
	Audit   *models.Audit       `json:"audit"`
}

func NewAuditHandler(service SiteAuditor, log *log.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		log:     log,
	}
}

func (h *AuditHandler) Handle(w http.ResponseWriter, r *http.Request) {
	h.log.Debug(`audit site handler called`)

	var request AuditRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		sendError(w, middleware.Logger(r.Context(), h.log), `failed to decode request body`, err, http.StatusBadRequest)
		return
	}

	if err := request.Validate(); err != nil {
		sendError(w, middleware.Logger(r.Context(), h.log), `failed to validate request body`, err, http.StatusBadRequest)
		return
	}

	audit, err := h.service.AuditSite(r.Context(), request.SiteURL)
	switch {
	case errors.Is(err, service.ErrNoPages):
		sendError(w, middleware.Logger(r.Context(), h.log), `no pages found, check the url or site accessibility`, err, http.StatusUnprocessableEntity)
		return
	case err != nil && audit == nil:
		sendError(w, middleware.Logger(r.Context(), h.log), `failed to audit site`, err, http.StatusInternalServerError)
		return
	case err != nil:
		middleware.Logger(r.Context(), h.log).WithError(err).WithField("audit_id", audit.ID).Warn(`audit not persisted`)
	}

	summary := models.NewAuditSummary(audit)
	middleware.Logger(r.Context(), h.log).WithFields(log.Fields{
		"audit_id": audit.ID,
		"site":     audit.Site,
		"pages":    summary.Pages,
	}).Info(`site audited`)

	sendJSON(w, h.log, http.StatusCreated, AuditResponse{
		Summary: summary,
		Audit:   audit,
	})
}
