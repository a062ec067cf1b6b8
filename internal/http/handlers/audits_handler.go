package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	domain "seo_auditor/internal/domain/adaptors"
	"seo_auditor/internal/domain/models"
	"seo_auditor/internal/http/middleware"
	"seo_auditor/internal/pkg/errors"
	"seo_auditor/internal/report"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// AuditsHandler serves stored audits.
type AuditsHandler struct {
	store domain.AuditStore
	log   *log.Logger
}

func NewAuditsHandler(store domain.AuditStore, log *log.Logger) *AuditsHandler {
	return &AuditsHandler{
		store: store,
		log:   log,
	}
}

func (h *AuditsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			sendError(w, middleware.Logger(r.Context(), h.log), fmt.Sprintf(`limit must be between 1 and %d`, maxListLimit), err, http.StatusBadRequest)
			return
		}
		limit = n
	}

	audits, err := h.store.List(r.Context(), limit)
	if err != nil {
		sendError(w, middleware.Logger(r.Context(), h.log), `failed to list audits`, err, http.StatusInternalServerError)
		return
	}
	sendJSON(w, h.log, http.StatusOK, audits)
}

func (h *AuditsHandler) Get(w http.ResponseWriter, r *http.Request) {
	audit, ok := h.load(w, r)
	if !ok {
		return
	}
	sendJSON(w, h.log, http.StatusOK, audit)
}

// Export renders a stored audit in the format named by the format query
// parameter, csv by default.
func (h *AuditsHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := report.FormatCSV
	if raw := r.URL.Query().Get("format"); raw != "" {
		f, err := report.ParseFormat(raw)
		if err != nil {
			sendError(w, middleware.Logger(r.Context(), h.log), `unsupported export format`, err, http.StatusBadRequest)
			return
		}
		format = f
	}

	audit, ok := h.load(w, r)
	if !ok {
		return
	}

	writer, err := report.NewWriter(format)
	if err != nil {
		sendError(w, middleware.Logger(r.Context(), h.log), `unsupported export format`, err, http.StatusBadRequest)
		return
	}

	w.Header().Set(`Content-Type`, format.ContentType())
	w.Header().Set(`Content-Disposition`, fmt.Sprintf(`attachment; filename=%q`, report.FileName(audit.Site, format)))
	if err := writer.Write(w, audit); err != nil {
		h.log.WithError(err).WithField("audit_id", audit.ID).Error(`failed to write export`)
	}
}

func (h *AuditsHandler) load(w http.ResponseWriter, r *http.Request) (*models.Audit, bool) {
	id := chi.URLParam(r, "id")
	audit, err := h.store.Get(r.Context(), id)
	if errors.Is(err, errors.ErrNotFound) {
		sendError(w, middleware.Logger(r.Context(), h.log), `audit not found`, err, http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		sendError(w, middleware.Logger(r.Context(), h.log), `failed to load audit`, err, http.StatusInternalServerError)
		return nil, false
	}
	return audit, true
}
