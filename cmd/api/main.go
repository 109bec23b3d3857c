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

	"github.com/autotrackr/autotrackr-backend/api/routes"
	"github.com/autotrackr/autotrackr-backend/internal/analytics"
	"github.com/autotrackr/autotrackr-backend/internal/auth"
	"github.com/autotrackr/autotrackr-backend/internal/cars"
	"github.com/autotrackr/autotrackr-backend/internal/users"
	"github.com/autotrackr/autotrackr-backend/pkg/auth/session"
	"github.com/autotrackr/autotrackr-backend/pkg/config"
	"github.com/autotrackr/autotrackr-backend/pkg/db"
	"github.com/autotrackr/autotrackr-backend/pkg/db/models"
	"github.com/autotrackr/autotrackr-backend/pkg/logger"
	"github.com/autotrackr/autotrackr-backend/pkg/metrics"
	"github.com/autotrackr/autotrackr-backend/pkg/migrate"
	"github.com/autotrackr/autotrackr-backend/pkg/redis"
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

	dbClient, err := bootstrapDB(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	carsRepo := cars.NewRepository(dbClient.DB())
	carsService := cars.NewService(carsRepo)
	analyticsService := analytics.NewService(carsRepo)

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	handler := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		RateLimiter: redisClient,
		Sessions:    sessionManager,
		Metrics:     httpMetrics,
		Cars:        carsService,
		Analytics:   analyticsService,
		Auth:        authService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

// bootstrapDB opens Postgres in the normal case. The sqlite feature flag
// serves local development without a Postgres instance; schema management
// falls to GORM there since Goose migrations are written for Postgres.
func bootstrapDB(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*db.Client, error) {
	if cfg.FeatureFlags.UseSQLite {
		client, err := db.NewSQLite(ctx, cfg.FeatureFlags.SQLitePath, logg)
		if err != nil {
			return nil, err
		}
		if err := client.DB().AutoMigrate(&models.Car{}, &models.User{}); err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, err
	}
	if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
		return nil, err
	}
	return client, nil
}
