package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"seo_auditor/internal/application"
	"seo_auditor/internal/domain/models"
	"seo_auditor/internal/http/middleware"
	"seo_auditor/internal/report"
	"seo_auditor/internal/service"

	log "github.com/sirupsen/logrus"
)

type PageAnalyzer interface {
	AnalyzePage(ctx context.Context, pageURL string) models.PageFinding
}

type PageAnalysisHandler struct {
	service PageAnalyzer
	log     *log.Logger
}

type PageAnalysisRequest struct {
	URL string `json:"url"`
}

type PageAnalysisResponse struct {
	URL           string             `json:"url"`
	Severity      models.Severity    `json:"severity"`
	IssuesSummary string             `json:"issues_summary"`
	Finding       models.PageFinding `json:"finding"`
}

func (r *PageAnalysisRequest) Validate() error {
	return application.ValidateURL(r.URL)
}

func NewPageAnalysisHandler(service PageAnalyzer, log *log.Logger) *PageAnalysisHandler {
	return &PageAnalysisHandler{
		service: service,
		log:     log,
	}
}

func (h *PageAnalysisHandler) Handle(w http.ResponseWriter, r *http.Request) {
	h.log.Debug(`analyze page handler called`)

	var request PageAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		sendError(w, middleware.Logger(r.Context(), h.log), `failed to decode request body`, err, http.StatusBadRequest)
		return
	}

	if err := request.Validate(); err != nil {
		sendError(w, middleware.Logger(r.Context(), h.log), `failed to validate request body`, err, http.StatusBadRequest)
		return
	}

	finding := h.service.AnalyzePage(r.Context(), request.URL)
	severity := service.SeverityOf(finding)

	response := PageAnalysisResponse{
		URL:      request.URL,
		Severity: severity,
		IssuesSummary: report.NewRecord(models.RankedPage{
			AuditedPage: models.AuditedPage{Finding: finding},
			Severity:    severity,
		}).IssuesSummary,
		Finding: finding,
	}
	sendJSON(w, h.log, http.StatusOK, response)
}
