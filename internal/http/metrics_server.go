package http

import (
	"net/http"
	"time"

	"seo_auditor/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// NewMetricsServer exposes the audit and HTTP collectors on /metrics.
func NewMetricsServer(host string, timeout time.Duration, log *log.Logger) *Server {
	reg := metrics.MetricsRegister()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return newServer("metrics", &http.Server{
		Addr:              host,
		Handler:           mux,
		ReadHeaderTimeout: timeout,
	}, timeout, log)
}
