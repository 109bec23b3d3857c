package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/autotrackr/autotrackr-backend/api/controllers"
	"github.com/autotrackr/autotrackr-backend/api/middleware"
	"github.com/autotrackr/autotrackr-backend/internal/analytics"
	"github.com/autotrackr/autotrackr-backend/internal/auth"
	"github.com/autotrackr/autotrackr-backend/internal/cars"
	"github.com/autotrackr/autotrackr-backend/pkg/auth/session"
	"github.com/autotrackr/autotrackr-backend/pkg/config"
	"github.com/autotrackr/autotrackr-backend/pkg/logger"
	"github.com/autotrackr/autotrackr-backend/pkg/metrics"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// Deps bundles everything the router mounts.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          pinger
	Redis       pinger
	RateLimiter rateLimiterStore
	Sessions    sessionManager
	Metrics     *metrics.HTTPMetrics

	Cars      cars.Service
	Analytics analytics.Service
	Auth      auth.Service
}

// NewRouter mounts the full API surface. Reads are public; mutations and
// analytics sit behind bearer auth.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.HealthLive(cfg))
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimiter, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Sessions, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Sessions, cfg.JWT, logg))
	})

	r.Route("/cars", func(r chi.Router) {
		r.Get("/", controllers.ListCars(deps.Cars, logg))
		r.Get("/{id}", controllers.GetCar(deps.Cars, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Post("/", controllers.CreateCar(deps.Cars, logg))
			r.Put("/{id}", controllers.UpdateCar(deps.Cars, logg))
			r.Delete("/{id}", controllers.DeleteCar(deps.Cars, logg))
		})
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Get("/summary", controllers.AnalyticsSummary(deps.Analytics, logg))
		r.Get("/inventory", controllers.AnalyticsInventory(deps.Analytics, logg))
		r.Get("/time-series", controllers.AnalyticsTimeSeries(deps.Analytics, logg))
		r.Get("/age-buckets", controllers.AnalyticsAgeBuckets(deps.Analytics, logg))
	})

	return r
}
