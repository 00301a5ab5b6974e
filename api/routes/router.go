package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cricketstore/storefront/api/controllers"
	"github.com/cricketstore/storefront/api/middleware"
	"github.com/cricketstore/storefront/pkg/config"
	"github.com/cricketstore/storefront/pkg/logger"
	"github.com/cricketstore/storefront/pkg/metrics"
	"github.com/cricketstore/storefront/pkg/storage"
)

// Deps collects what the router hands to middleware and controllers.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	Storefront *controllers.Storefront
	Pinger     storage.Pinger
	Metrics    *metrics.StorefrontMetrics
	Gatherer   prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger
	sf := deps.Storefront

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pinger))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, cfg.App.IsProd(), logg))
		idempotent := middleware.Idempotency(sf.Store, logg)

		r.Get("/checkout/summary", controllers.CheckoutSummaryHTML(sf, logg))

		r.Route("/api/v1", func(r chi.Router) {
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(sf, logg))
				r.Delete("/", controllers.CartClear(sf, logg))
				r.With(idempotent).Post("/items", controllers.CartAddItem(sf, logg))
				r.Put("/items/{productId}", controllers.CartSetQuantity(sf, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(sf, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/current", controllers.NotificationCurrent(sf, logg))
				r.Delete("/current", controllers.NotificationDismiss(sf, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/summary", controllers.CheckoutSummary(sf, logg))
				r.Get("/pay-button", controllers.CheckoutPayButton(sf, logg))
				r.Post("/pay", controllers.CheckoutPay(sf, logg))
				r.With(idempotent).Post("/payments/success", controllers.CheckoutPaymentSuccess(sf, logg))
				r.Post("/payments/dismiss", controllers.CheckoutPaymentDismiss(sf, logg))
				r.Post("/payments/failure", controllers.CheckoutPaymentFailure(sf, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(sf, logg))
				r.Get("/{orderId}", controllers.OrderDetail(sf, logg))
			})
		})
	})

	return r
}
