package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bundledraw/bundledraw-backend/api/controllers"
	"github.com/bundledraw/bundledraw-backend/api/middleware"
	allocsvc "github.com/bundledraw/bundledraw-backend/internal/allocation"
	invsvc "github.com/bundledraw/bundledraw-backend/internal/inventory"
	quotesvc "github.com/bundledraw/bundledraw-backend/internal/quotes"
	"github.com/bundledraw/bundledraw-backend/pkg/config"
	"github.com/bundledraw/bundledraw-backend/pkg/db"
	"github.com/bundledraw/bundledraw-backend/pkg/logger"
	"github.com/bundledraw/bundledraw-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	quoteService quotesvc.Service,
	allocationService allocsvc.Service,
	inventoryService invsvc.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/events/{eventId}/packs/{pack}", func(r chi.Router) {
			r.Get("/quote", controllers.GetPriceQuote(quoteService, logg))
			r.Get("/bundle-sizes", controllers.GetBundleSizes(quoteService, logg))
		})

		r.Post("/allocations", controllers.AllocateBundle(allocationService, logg))
		r.Get("/allocations/{allocationId}", controllers.GetAllocation(allocationService, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Post("/inventory", controllers.AdminCreateItem(inventoryService, logg))
			r.Route("/inventory/{itemId}", func(r chi.Router) {
				r.Get("/", controllers.AdminGetItem(inventoryService, logg))
				r.Patch("/", controllers.AdminUpdateItem(inventoryService, logg))
				r.Post("/withdraw", controllers.AdminWithdrawItem(inventoryService, logg))
			})
			r.Route("/events/{eventId}", func(r chi.Router) {
				r.Get("/inventory", controllers.AdminListInventory(inventoryService, logg))
				r.Get("/integrity", controllers.AdminCheckIntegrity(inventoryService, logg))
			})
		})
	})

	return r
}
