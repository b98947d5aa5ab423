package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hoanghai1803/newsgate/internal/api/handlers"
	"github.com/hoanghai1803/newsgate/internal/config"
	"github.com/hoanghai1803/newsgate/internal/failover"
	"github.com/hoanghai1803/newsgate/internal/metrics"
)

// NewRouter creates and configures the HTTP router. The metrics endpoint is
// mounted only when enabled in cfg and gatherer is non-nil.
func NewRouter(orch *failover.Orchestrator, rec *metrics.Recorder, gatherer prometheus.Gatherer, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(Metrics(rec))
	r.Use(Recovery)
	r.Use(CORS)

	r.NotFound(handlers.NotFound())
	r.MethodNotAllowed(handlers.MethodNotAllowed())

	news := handlers.GetNews(orch)
	r.Get("/", news)
	r.Head("/", news)
	r.Post("/", news)

	r.Get("/healthz", handlers.Health(orch.Providers()))

	if cfg.Metrics.Enabled && gatherer != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler(gatherer))
	}

	return r
}
