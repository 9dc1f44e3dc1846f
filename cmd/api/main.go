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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/sweetshop-backend/api/routes"
	"github.com/angelmondragon/sweetshop-backend/internal/auth"
	"github.com/angelmondragon/sweetshop-backend/internal/categories"
	"github.com/angelmondragon/sweetshop-backend/internal/purchases"
	"github.com/angelmondragon/sweetshop-backend/internal/restocks"
	"github.com/angelmondragon/sweetshop-backend/internal/sweets"
	"github.com/angelmondragon/sweetshop-backend/internal/users"
	"github.com/angelmondragon/sweetshop-backend/pkg/auth/session"
	"github.com/angelmondragon/sweetshop-backend/pkg/config"
	"github.com/angelmondragon/sweetshop-backend/pkg/db"
	"github.com/angelmondragon/sweetshop-backend/pkg/logger"
	"github.com/angelmondragon/sweetshop-backend/pkg/metrics"
	"github.com/angelmondragon/sweetshop-backend/pkg/migrate"
	"github.com/angelmondragon/sweetshop-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var (
		redisClient    *redis.Client
		sessionManager *session.Manager
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		sessionManager, err = session.NewManager(redisClient, cfg.JWT)
		if err != nil {
			return err
		}
	} else {
		logg.Warn(ctx, "redis not configured; refresh sessions, rate limits and idempotency disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(reg)
	inventoryMetrics := metrics.NewInventoryMetrics(reg)

	services, err := buildServices(cfg, dbClient, sessionManager, inventoryMetrics)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildServices(cfg *config.Config, dbClient *db.Client, sessionManager *session.Manager, inventory *metrics.InventoryMetrics) (routes.Services, error) {
	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	categoryRepo := categories.NewRepository(conn)
	sweetRepo := sweets.NewRepository(conn)

	authParams := auth.ServiceParams{
		UserRepo:         userRepo,
		JWTConfig:        cfg.JWT,
		PasswordConfig:   cfg.Password,
		AllowAdminSignup: cfg.Auth.AllowAdminSignup,
	}
	if sessionManager != nil {
		authParams.SessionManager = sessionManager
	}
	authService, err := auth.NewService(authParams)
	if err != nil {
		return routes.Services{}, err
	}

	userService, err := users.NewService(users.ServiceParams{
		Repo:         userRepo,
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	})
	if err != nil {
		return routes.Services{}, err
	}

	categoryService, err := categories.NewService(categories.ServiceParams{
		Repo:         categoryRepo,
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	})
	if err != nil {
		return routes.Services{}, err
	}

	sweetService, err := sweets.NewService(sweets.ServiceParams{
		Repo:         sweetRepo,
		Categories:   categoryRepo,
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	})
	if err != nil {
		return routes.Services{}, err
	}

	purchaseService, err := purchases.NewService(purchases.ServiceParams{
		Tx:           dbClient,
		Repo:         purchases.NewRepository(conn),
		Sweets:       sweetRepo,
		Metrics:      inventory,
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	})
	if err != nil {
		return routes.Services{}, err
	}

	restockService, err := restocks.NewService(restocks.ServiceParams{
		Tx:           dbClient,
		Repo:         restocks.NewRepository(conn),
		Sweets:       sweetRepo,
		Metrics:      inventory,
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:       authService,
		Users:      userService,
		Categories: categoryService,
		Sweets:     sweetService,
		Purchases:  purchaseService,
		Restocks:   restockService,
	}, nil
}
