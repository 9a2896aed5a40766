// Package rest exposes the entry service over HTTP/JSON:
//
//	GET    /entries       list the caller's entries
//	POST   /entries       create an entry
//	DELETE /entries/{id}  delete an entry
//	GET    /healthz       liveness, no auth
//	GET    /metrics       Prometheus metrics, no auth
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/auth"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/dmitrijs2005/gophdiary/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
)

// EntryService is what the handlers need from services.EntryService.
type EntryService interface {
	List(ctx context.Context, userID string) ([]models.Entry, error)
	Create(ctx context.Context, userID string, req services.NewEntry) (*models.Entry, error)
	Delete(ctx context.Context, userID, id string) error
}

// HTTPServer serves the entry API.
type HTTPServer struct {
	address         string
	logger          logging.Logger
	handler         http.Handler
	shutdownTimeout time.Duration
}

// Options configure NewHTTPServer.
type Options struct {
	Address         string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	// Registerer receives the HTTP metrics; nil means prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	// Gatherer backs /metrics; nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

func NewHTTPServer(opts Options, l logging.Logger, es EntryService, v *auth.Verifier) (*HTTPServer, error) {
	logger := l.With("module", "http_server")

	router, err := newRouter(opts, logger, es, v)
	if err != nil {
		return nil, err
	}

	return &HTTPServer{
		address:         opts.Address,
		logger:          logger,
		handler:         router,
		shutdownTimeout: opts.ShutdownTimeout,
	}, nil
}

// Handler returns the router, for tests and embedding.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		timeout := s.shutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
