package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/expenses"
	"github.com/consorcia/consorcia/internal/reports"
	"github.com/consorcia/consorcia/internal/settlement"
	"github.com/consorcia/consorcia/internal/units"
	"github.com/consorcia/consorcia/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	BuildingHandler   *consortium.Handler
	ExpenseHandler    *expenses.Handler
	UnitHandler       *units.Handler
	SettlementHandler *settlement.Handler
	ReportsHandler    *reports.Handler
	JobHandler        *jobs.Handler
}

// NewRouter constructs the chi.Router with Consorcia defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1/buildings", func(r chi.Router) {
		r.Get("/", params.BuildingHandler.List)
		r.Post("/", params.BuildingHandler.Create)
		r.Route("/{buildingID}", func(r chi.Router) {
			r.Get("/", params.BuildingHandler.Get)
			r.Put("/", params.BuildingHandler.Update)
			r.Delete("/", params.BuildingHandler.Delete)
			r.Mount("/expenses", params.ExpenseHandler.Routes())
			r.Mount("/units", params.UnitHandler.Routes())
			r.Mount("/settlement", params.SettlementHandler.Routes())
			r.Mount("/reports", params.ReportsHandler.Routes())
		})
	})

	if params.JobHandler != nil {
		r.Route("/api/v1/jobs", func(r chi.Router) {
			params.JobHandler.MountRoutes(r)
		})
	}

	// Portal self-service: submissions only, forced pending, tighter
	// rate limit. Providers report expenses, residents report payments;
	// the verdict on both stays behind the administrator routes.
	r.Route("/portal/provider/buildings/{buildingID}", func(r chi.Router) {
		r.Use(PortalRateLimit())
		r.Mount("/expenses", params.ExpenseHandler.ProviderRoutes())
	})
	r.Route("/portal/neighbor/buildings/{buildingID}", func(r chi.Router) {
		r.Use(PortalRateLimit())
		r.Mount("/payments", params.UnitHandler.NeighborRoutes())
	})

	return r
}
