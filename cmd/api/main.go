package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/middas-stores/storefront-gateway/api/controllers"
	"github.com/middas-stores/storefront-gateway/api/routes"
	accountsvc "github.com/middas-stores/storefront-gateway/internal/account"
	cartsvc "github.com/middas-stores/storefront-gateway/internal/cart"
	catalogsvc "github.com/middas-stores/storefront-gateway/internal/catalog"
	checkoutsvc "github.com/middas-stores/storefront-gateway/internal/checkout"
	"github.com/middas-stores/storefront-gateway/internal/stores"
	"github.com/middas-stores/storefront-gateway/pkg/commerce"
	"github.com/middas-stores/storefront-gateway/pkg/config"
	"github.com/middas-stores/storefront-gateway/pkg/db"
	"github.com/middas-stores/storefront-gateway/pkg/logger"
	"github.com/middas-stores/storefront-gateway/pkg/metrics"
	"github.com/middas-stores/storefront-gateway/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	storeService, err := stores.NewService(cfg.Store.SettingsPath)
	if err != nil {
		logg.Error(context.Background(), "failed to load store settings", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open local store", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing local store", err)
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else if cfg.Cart.UsesRedis() {
		logg.Error(context.Background(), "cart backend is redis but no redis endpoint configured", nil)
		os.Exit(1)
	}

	commerceClient, err := commerce.NewClient(cfg.Commerce, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build commerce client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewStorefrontMetrics(registry)

	var catalogService catalogsvc.Service
	if redisClient != nil {
		catalogService, err = catalogsvc.NewService(commerceClient, redisClient, cfg.Catalog.CacheTTL, logg)
	} else {
		catalogService, err = catalogsvc.NewService(commerceClient, nil, cfg.Catalog.CacheTTL, logg)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	if redisClient != nil {
		if err := catalogService.Refresh(context.Background()); err != nil {
			logg.Warn(context.Background(), "catalog warmup failed, serving on demand")
		}
	}

	var cartRepo cartsvc.Repository
	if cfg.Cart.UsesRedis() {
		cartRepo, err = cartsvc.NewRedisRepository(redisClient, cfg.Session.TTL)
	} else {
		cartRepo, err = cartsvc.NewGormRepository(dbClient.DB())
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create cart repository", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartRepo, catalogService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	var tokenRepo accountsvc.TokenRepository
	if redisClient != nil {
		tokenRepo, err = accountsvc.NewRedisTokenRepository(redisClient, cfg.Session.TTL)
	} else {
		tokenRepo, err = accountsvc.NewGormTokenRepository(dbClient.DB())
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create token repository", err)
		os.Exit(1)
	}

	accountService, err := accountsvc.NewService(commerceClient, tokenRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create account service", err)
		os.Exit(1)
	}

	var locker checkoutsvc.InflightLocker
	if redisClient != nil {
		locker, err = checkoutsvc.NewRedisLocker(redisClient, cfg.Checkout.InFlightTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create checkout locker", err)
			os.Exit(1)
		}
	} else {
		locker = checkoutsvc.NewMemoryLocker()
	}

	checkoutService, err := checkoutsvc.NewService(cartService, storeService, commerceClient, accountService, locker, m, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{
		"database": dbClient,
	}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"cart_backend": cfg.Cart.Backend,
	})
	logg.Info(ctx, "starting storefront gateway")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			m,
			registry,
			redisClient,
			readiness,
			storeService,
			catalogService,
			cartService,
			checkoutService,
			accountService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "gateway stopped unexpectedly", err)
		os.Exit(1)
	}
}
