package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/oguzsenturk/vitalshop-backend/api/controllers"
	"github.com/oguzsenturk/vitalshop-backend/api/routes"
	"github.com/oguzsenturk/vitalshop-backend/internal/admins"
	"github.com/oguzsenturk/vitalshop-backend/internal/cart"
	"github.com/oguzsenturk/vitalshop-backend/internal/catalog"
	checkoutsvc "github.com/oguzsenturk/vitalshop-backend/internal/checkout"
	"github.com/oguzsenturk/vitalshop-backend/internal/content"
	"github.com/oguzsenturk/vitalshop-backend/internal/jobs"
	"github.com/oguzsenturk/vitalshop-backend/internal/orders"
	"github.com/oguzsenturk/vitalshop-backend/internal/payments"
	"github.com/oguzsenturk/vitalshop-backend/internal/settings"
	"github.com/oguzsenturk/vitalshop-backend/internal/uploads"
	"github.com/oguzsenturk/vitalshop-backend/pkg/config"
	"github.com/oguzsenturk/vitalshop-backend/pkg/db"
	"github.com/oguzsenturk/vitalshop-backend/pkg/env"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
	"github.com/oguzsenturk/vitalshop-backend/pkg/metrics"
	"github.com/oguzsenturk/vitalshop-backend/pkg/migrate"
	"github.com/oguzsenturk/vitalshop-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	deps, maintenance, err := buildServices(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	if cfg.SeedAdmin.Email != "" && cfg.SeedAdmin.Password != "" {
		if err := deps.Admins.EnsureSeedAdmin(context.Background(), cfg.SeedAdmin.Email, cfg.SeedAdmin.Password); err != nil {
			logg.Error(context.Background(), "failed to seed owner account", err)
			os.Exit(1)
		}
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(*deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Jobs.Enabled && maintenance != nil {
		go func() {
			if err := maintenance.Run(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(ctx, "maintenance loop stopped unexpectedly", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (*routes.Deps, *jobs.Service, error) {
	conn := dbClient.DB()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	catalogService, err := catalog.NewService(catalog.NewRepository(conn), dbClient)
	if err != nil {
		return nil, nil, err
	}

	contentService, err := content.NewService(content.NewRepository(conn))
	if err != nil {
		return nil, nil, err
	}

	settingsService, err := settings.NewService(settings.NewRepository(conn))
	if err != nil {
		return nil, nil, err
	}

	uploadService, err := uploads.NewService(cfg.Upload)
	if err != nil {
		return nil, nil, err
	}

	cartRepo := cart.NewRepository(conn)
	cartService, err := cart.NewService(cartRepo, catalog.NewRepository(conn), dbClient)
	if err != nil {
		return nil, nil, err
	}

	orderService, err := orders.NewService(orders.NewRepository(conn), dbClient)
	if err != nil {
		return nil, nil, err
	}

	paymentService, err := payments.NewService(payments.ServiceParams{
		Settings: settingsService,
		Orders:   orderService,
		Iyzico:   payments.NewIyzicoClient(cfg.Iyzico),
		Paytr:    payments.NewPaytrClient(cfg.Paytr),
		Logger:   logg,
	})
	if err != nil {
		return nil, nil, err
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Carts:   cartService,
		Gateway: paymentService,
		Orders:  orderService,
		Intents: checkoutsvc.NewIntentRepository(conn),
		Guard:   redisClient,
		Config:  cfg.Checkout,
		BaseURL: cfg.App.BaseURL,
		Logger:  logg,
	})
	if err != nil {
		return nil, nil, err
	}

	adminService, err := admins.NewService(admins.ServiceParams{
		Repo:      admins.NewRepository(conn),
		Tx:        dbClient,
		Limiter:   redisClient,
		JWT:       cfg.JWT,
		Password:  cfg.Password,
		RateLimit: cfg.AuthRateLimit,
		Logger:    logg,
	})
	if err != nil {
		return nil, nil, err
	}

	lock, err := jobs.NewRedisLock(redisClient, cfg.Jobs.LockTTL)
	if err != nil {
		return nil, nil, err
	}
	maintenance, err := jobs.NewService(jobs.ServiceParams{
		Logger:  logg,
		Lock:    lock,
		Metrics: metrics.NewJobMetrics(registry),
		Config:  cfg.Jobs,
		Jobs: []jobs.Job{
			jobs.NewIntentExpiryJob(checkoutsvc.NewIntentRepository(conn), logg),
			jobs.NewCartCleanupJob(cartRepo, cfg.Jobs.CartRetention, logg),
		},
	})
	if err != nil {
		return nil, nil, err
	}

	return &routes.Deps{
		Config:    cfg,
		Logger:    logg,
		Metrics:   httpMetrics,
		Registry:  registry,
		Readiness: controllers.ReadinessDeps(dbClient, redisClient),
		Catalog:   catalogService,
		Content:   contentService,
		Settings:  settingsService,
		Uploads:   uploadService,
		Cart:      cartService,
		Orders:    orderService,
		Checkout:  checkoutService,
		Admins:    adminService,
	}, maintenance, nil
}
