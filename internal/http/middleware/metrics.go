package middleware

import (
	"net/http"
	"strconv"
	"time"

	"seo_auditor/internal/pkg/metrics"

	"github.com/go-chi/chi/v5"
)

// unmatchedRoute labels requests no route matched, keeping label cardinality bounded.
const unmatchedRoute = `unmatched`

func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusRecorder{ResponseWriter: w}
		start := time.Now()

		next.ServeHTTP(srw, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		code := strconv.Itoa(srw.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		if srw.Status() >= 400 {
			metrics.HTTPRequestErrorsTotal.WithLabelValues(r.Method, route, code).Inc()
		}
	})
}
