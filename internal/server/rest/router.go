package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func newRouter(opts Options, logger logging.Logger, es EntryService, v *auth.Verifier) (http.Handler, error) {
	reg, gather := opts.Registerer, opts.Gatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if gather == nil {
		gather = prometheus.DefaultGatherer
	}

	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}

	h := &handlers{entries: es, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(m.middleware)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", common.RequestIDHeaderName},
		ExposedHeaders:   []string{common.RequestIDHeaderName},
		AllowCredentials: false,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))

	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.HandlerFor(gather, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(bearerAuth(v, logger))
		r.Get("/entries", h.list)
		r.Post("/entries", h.create)
		r.Delete("/entries/{id}", h.delete)
	})

	return r, nil
}
