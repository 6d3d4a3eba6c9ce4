package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/popguide/ingest-service/internal/delivery/http/handler"
	"github.com/popguide/ingest-service/internal/delivery/http/middleware"
)

const serviceName = "ingest-service"

func New(h *handler.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/health", h.HandleHealthCheck)

	r.Route("/api", func(r chi.Router) {
		// No request timeout: a run lasts as long as its search terms take.
		r.Post("/scrape-category", h.HandleScrapeCategory)
	})

	return otelhttp.NewHandler(r, serviceName)
}
