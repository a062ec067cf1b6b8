package handlers

import (
	"context"
	"net/http"
	"sort"

	log "github.com/sirupsen/logrus"
)

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

type ReadyHandler struct {
	checks map[string]ReadinessCheck
	log    *log.Logger
}

type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func NewReadyHandler(checks map[string]ReadinessCheck, log *log.Logger) *ReadyHandler {
	return &ReadyHandler{
		checks: checks,
		log:    log,
	}
}

func (h *ReadyHandler) Handle(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	response := ReadyResponse{Status: "OK", Checks: map[string]string{}}
	code := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](r.Context()); err != nil {
			h.log.WithError(err).WithField("check", name).Warn(`readiness check failed`)
			response.Checks[name] = err.Error()
			response.Status = "UNAVAILABLE"
			code = http.StatusServiceUnavailable
			continue
		}
		response.Checks[name] = "OK"
	}
	sendJSON(w, h.log, code, response)
}
