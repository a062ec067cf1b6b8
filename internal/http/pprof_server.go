package http

import (
	"net/http"
	_ "net/http/pprof"
	"time"

	log "github.com/sirupsen/logrus"
)

// NewPprofServer serves the profiles net/http/pprof registers on http.DefaultServeMux.
func NewPprofServer(host string, timeout time.Duration, log *log.Logger) *Server {
	return newServer("pprof", &http.Server{
		Addr:              host,
		Handler:           http.DefaultServeMux,
		ReadHeaderTimeout: timeout,
	}, timeout, log)
}
