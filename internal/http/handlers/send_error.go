package handlers

import (
	"encoding/json"
	"net/http"

	"seo_auditor/internal/pkg/errors"

	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    int    `json:"code"`
}

func sendError(w http.ResponseWriter, logger *log.Entry, message string, err error, code int) {
	entry := logger.WithField("code", code)
	if err != nil {
		entry = entry.WithError(err)
	}
	if code >= http.StatusInternalServerError {
		entry.Error(message)
	} else {
		entry.Warn(message)
	}

	response := ErrorResponse{
		Message: message,
		Error:   errors.Summary(err),
		Code:    code,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(response)
}

func sendJSON(w http.ResponseWriter, logger *log.Logger, code int, v any) {
	w.Header().Set(`Content-Type`, `application/json`)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error(`failed to encode response`)
	}
}
