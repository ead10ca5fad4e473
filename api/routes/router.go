package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/middas-stores/storefront-gateway/api/controllers"
	"github.com/middas-stores/storefront-gateway/api/middleware"
	accountsvc "github.com/middas-stores/storefront-gateway/internal/account"
	cartsvc "github.com/middas-stores/storefront-gateway/internal/cart"
	catalogsvc "github.com/middas-stores/storefront-gateway/internal/catalog"
	checkoutsvc "github.com/middas-stores/storefront-gateway/internal/checkout"
	"github.com/middas-stores/storefront-gateway/internal/stores"
	"github.com/middas-stores/storefront-gateway/pkg/config"
	"github.com/middas-stores/storefront-gateway/pkg/logger"
	"github.com/middas-stores/storefront-gateway/pkg/metrics"
	"github.com/middas-stores/storefront-gateway/pkg/redis"
)

// NewRouter assembles the gateway's HTTP surface: health and metrics
// endpoints outside the session boundary, everything under /api/v1 behind
// the anonymous session cookie.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	m *metrics.StorefrontMetrics,
	gatherer prometheus.Gatherer,
	redisClient *redis.Client,
	readiness map[string]controllers.Pinger,
	storeService stores.Service,
	catalogService catalogsvc.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	accountService accountsvc.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, m),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, cfg.App.IsProd(), logg))

		r.Get("/store", controllers.StoreSettings(storeService, logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogProducts(catalogService, logg))
			r.Get("/products/{productID}", controllers.CatalogProduct(catalogService, logg))
			r.Get("/categories", controllers.CatalogCategories(catalogService, logg))
			r.Post("/resolve-variant", controllers.CatalogResolveVariant(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, m, logg))
			r.Post("/items", controllers.CartAddItem(cartService, m, logg))
			r.Patch("/items/{itemID}", controllers.CartUpdateItem(cartService, m, logg))
			r.Delete("/items/{itemID}", controllers.CartRemoveItem(cartService, m, logg))
		})

		r.Post("/checkout", controllers.CheckoutSubmit(checkoutService, logg))

		r.Route("/account", func(r chi.Router) {
			r.With(authLimit(loginPolicy, redisClient, logg)).
				Post("/login", controllers.AccountLogin(accountService, logg))
			r.With(authLimit(registerPolicy, redisClient, logg)).
				Post("/register", controllers.AccountRegister(accountService, logg))
			r.Post("/logout", controllers.AccountLogout(accountService, logg))
			r.Get("/", controllers.AccountCurrent(accountService, logg))
			r.Get("/orders", controllers.AccountOrders(accountService, logg))
		})
	})

	return r
}

// authLimit leaves the auth surface unthrottled when redis is not wired,
// which matches sqlite-only single-store deployments.
func authLimit(policy middleware.AuthRateLimitPolicy, redisClient *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	if redisClient == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.AuthRateLimit(policy, redisClient, logg)
}
