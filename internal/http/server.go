package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"seo_auditor/internal/pkg/errors"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

// Server runs one listener: the API, metrics or pprof.
type Server struct {
	name         string
	server       *http.Server
	shutdownWait time.Duration
	log          *log.Entry
}

func newServer(name string, srv *http.Server, shutdownWait time.Duration, logger *log.Logger) *Server {
	return &Server{
		name:         name,
		server:       srv,
		shutdownWait: shutdownWait,
		log:          logger.WithField("server", name),
	}
}

// NewHttpServer serves the API router. Request contexts derive from ctx.
func NewHttpServer(ctx context.Context, config *HTTPServerConfig, router *chi.Mux, log *log.Logger) *Server {
	return newServer("http", &http.Server{
		Addr:              config.Host,
		Handler:           router,
		ReadTimeout:       config.Timeouts.Read,
		ReadHeaderTimeout: config.Timeouts.ReadHeader,
		WriteTimeout:      config.Timeouts.Write,
		IdleTimeout:       config.Timeouts.Idle,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}, config.Timeouts.ShutdownWait, log)
}

func (s *Server) Addr() string {
	return s.server.Addr
}

// Start blocks until the server stops. A graceful Stop is not an error.
func (s *Server) Start() error {
	s.log.Info("starting server on: ", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, `failed to listen`)
	}
	return nil
}

func (s *Server) Stop() error {
	if s.server == nil {
		return errors.New(s.name + " server is not initialized")
	}
	s.log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownWait)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, `failed to shutdown `+s.name+` server`)
	}

	s.log.Info("server exiting")
	return nil
}
