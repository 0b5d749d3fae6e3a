package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkohara/roastery/api/controllers"
	webhookcontrollers "github.com/mkohara/roastery/api/controllers/webhooks"
	"github.com/mkohara/roastery/api/middleware"
	beansvc "github.com/mkohara/roastery/internal/beans"
	cartsvc "github.com/mkohara/roastery/internal/cart"
	checkoutsvc "github.com/mkohara/roastery/internal/checkout"
	ordersvc "github.com/mkohara/roastery/internal/orders"
	profilesvc "github.com/mkohara/roastery/internal/profile"
	stripewebhook "github.com/mkohara/roastery/internal/webhooks/stripe"
	"github.com/mkohara/roastery/pkg/config"
	"github.com/mkohara/roastery/pkg/logger"
	"github.com/mkohara/roastery/pkg/metrics"
	"github.com/mkohara/roastery/pkg/redis"
	"github.com/mkohara/roastery/pkg/stripe"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         controllers.Pinger
	Redis      *redis.Client
	HTTP       *metrics.HTTPMetrics
	Beans      beansvc.Service
	Cart       cartsvc.Service
	Checkout   checkoutsvc.Service
	Orders     ordersvc.Service
	Profile    profilesvc.Service
	Stripe     *stripe.Client
	Webhook    *stripewebhook.Service
	EventGuard *stripewebhook.IdempotencyGuard
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if deps.HTTP != nil {
		r.Use(deps.HTTP.Middleware)
	}

	readiness := map[string]controllers.Pinger{"postgres": deps.DB}
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if deps.HTTP != nil {
		r.Method(http.MethodGet, "/metrics", deps.HTTP.Handler())
	}

	r.Route("/api/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(deps.Webhook, deps.Stripe, deps.EventGuard, logg))
	})

	// Public catalog reads.
	r.Get("/api/beans", controllers.ListBeans(deps.Beans, logg))
	r.Get("/api/beans/{beanId}", controllers.GetBean(deps.Beans, logg))

	checkoutPolicy := middleware.NewRateLimitPolicy(
		"checkout",
		cfg.RateLimit.CheckoutWindow,
		cfg.RateLimit.CheckoutLimit,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Post("/beans", controllers.CreateBean(deps.Beans, logg))
		r.Put("/beans/{beanId}", controllers.UpdateBean(deps.Beans, logg))
		r.Delete("/beans/{beanId}", controllers.DeleteBean(deps.Beans, logg))
		r.Get("/my/beans", controllers.ListMyBeans(deps.Beans, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.Cart, logg))
			r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
			r.Put("/items/{itemId}", controllers.UpdateCartItem(deps.Cart, logg))
			r.Delete("/items/{itemId}", controllers.RemoveCartItem(deps.Cart, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.With(
				middleware.RateLimit(checkoutPolicy, deps.Redis, logg),
				middleware.Idempotency(deps.Redis, logg),
			).Post("/payment-intent", controllers.CreatePaymentIntent(deps.Checkout, logg))
			r.Get("/payment-intent/{intentId}", controllers.GetPaymentIntent(deps.Checkout, logg))
		})

		r.Get("/orders", controllers.ListOrders(deps.Orders, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.GetProfile(deps.Profile, logg))
			r.Post("/", controllers.UpsertProfile(deps.Profile, logg))
			r.Put("/", controllers.UpsertProfile(deps.Profile, logg))
		})
	})

	return r
}
