package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const requestIDHeader = `x-request-id`

type ctxKeyRequestID struct{}

type ctxKeyLogger struct{}

// RequestID returns the request id attached by RequestIDLoggerMiddleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return id
}

// Logger returns the request-scoped entry, or a plain entry of fallback when
// the request did not pass through RequestIDLoggerMiddleware.
func Logger(ctx context.Context, fallback *log.Logger) *log.Entry {
	if entry, ok := ctx.Value(ctxKeyLogger{}).(*log.Entry); ok {
		return entry
	}
	return log.NewEntry(fallback)
}

// RequestIDLoggerMiddleware tags every request with an id, logs its outcome
// and turns a handler panic into a JSON 500.
func RequestIDLoggerMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			reqLog := logger.WithFields(log.Fields{
				`method`:     r.Method,
				`path`:       r.URL.Path,
				`request_id`: reqID,
			})
			ctx := context.WithValue(r.Context(), ctxKeyRequestID{}, reqID)
			ctx = context.WithValue(ctx, ctxKeyLogger{}, reqLog)
			srw := &statusRecorder{ResponseWriter: w}

			start := time.Now()
			defer func() {
				entry := reqLog.WithField(`duration`, time.Since(start).String())

				if rec := recover(); rec != nil {
					entry.WithFields(log.Fields{
						`status`: http.StatusInternalServerError,
						`error`:  fmt.Sprintf(`%v`, rec),
						`stack`:  string(debug.Stack()),
					}).Error(`panic recovered`)
					srw.Header().Set(`Content-Type`, `application/json`)
					srw.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(srw).Encode(map[string]string{
						`error`:      `internal server error`,
						`request_id`: reqID,
					})
					return
				}

				entry = entry.WithField(`status`, srw.Status())
				if srw.Status() >= 400 {
					entry.Error(`request completed with error status`)
					return
				}
				entry.Info(`request completed`)
			}()

			next.ServeHTTP(srw, r.WithContext(ctx))
		})
	}
}
