package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rotacarga/rotacarga/internal/analytics"
	"github.com/rotacarga/rotacarga/internal/masterdata/clientes"
	"github.com/rotacarga/rotacarga/internal/masterdata/motoristas"
	"github.com/rotacarga/rotacarga/internal/masterdata/veiculos"
	"github.com/rotacarga/rotacarga/internal/observability"
	"github.com/rotacarga/rotacarga/internal/quotes"
	"github.com/rotacarga/rotacarga/internal/receivables"
	"github.com/rotacarga/rotacarga/internal/shipments"
	"github.com/rotacarga/rotacarga/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	ShipmentHandler   *shipments.Handler
	QuoteHandler      *quotes.Handler
	ReceivableHandler *receivables.Handler
	ClienteHandler    *clientes.Handler
	MotoristaHandler  *motoristas.Handler
	VeiculoHandler    *veiculos.Handler
	AnalyticsHandler  *analytics.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router serving the API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/viagens", params.ShipmentHandler.MountRoutes)
		api.Route("/cotacoes", params.QuoteHandler.MountRoutes)
		api.Route("/financeiro", params.ReceivableHandler.MountRoutes)
		api.Route("/clientes", params.ClienteHandler.MountRoutes)
		api.Route("/motoristas", params.MotoristaHandler.MountRoutes)
		api.Route("/veiculos", params.VeiculoHandler.MountRoutes)
		api.Route("/dashboard", params.AnalyticsHandler.MountRoutes)
		if params.JobHandler != nil {
			api.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
