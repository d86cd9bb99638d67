package router

import (
	"net/http"

	"productapi/internal/handler"
	"productapi/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// A nil registry disables request metrics and the /metrics endpoint.
func New(
	productHandler *handler.ProductHandler,
	reg *prometheus.Registry,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Apply middleware in order: RequestID -> Logging -> Metrics -> Recovery -> CORS
	// Recovery sits inside Logging and Metrics so recovered panics are still
	// logged and counted as 500s.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	if reg != nil {
		r.Use(middleware.NewMetrics(reg).Middleware)
	}
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS)
	r.Use(chimw.StripSlashes)

	r.NotFound(handler.NotFound(logger))
	r.MethodNotAllowed(handler.MethodNotAllowed(logger))

	r.Get("/health", productHandler.Health)
	r.Get("/ready", productHandler.Ready)
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	r.Get("/", productHandler.Overview)
	r.Get("/read", productHandler.List)

	r.Get("/detail", productHandler.Detail)
	r.Get("/detail/{pk}", productHandler.Detail)

	r.Post("/create", productHandler.Create)

	for _, pattern := range []string{"/update", "/update/{pk}"} {
		r.Post(pattern, productHandler.Update)
		r.Put(pattern, productHandler.Update)
	}

	return r
}
