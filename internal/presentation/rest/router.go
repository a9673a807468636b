package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/bibbank/amortization/pkg/auth"
)

// RouterConfig carries everything NewRouter mounts.
type RouterConfig struct {
	Users         *UserHandler
	Loans         *LoanHandler
	Health        *HealthHandler
	Authenticator auth.Authenticator
	RateLimit     RateLimitConfig
	Meter         metric.Meter // nil disables metrics
	Metrics       http.Handler // served at /metrics when set
	Logger        *slog.Logger
}

// NewRouter builds the HTTP API. ctx bounds background work such as the
// rate limiter's sweeper.
func NewRouter(ctx context.Context, cfg RouterConfig) (http.Handler, error) {
	meter := cfg.Meter
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("rest")
	}
	instrumented, err := instrument(meter)
	if err != nil {
		return nil, fmt.Errorf("create http instruments: %w", err)
	}
	limiter := newRateLimiter(ctx, cfg.RateLimit)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(instrumented)

	cfg.Health.RegisterRoutes(r)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(limiter.middleware)
		r.Use(middleware.Timeout(30 * time.Second))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", cfg.Users.HandleList)
			r.Post("/", cfg.Users.HandleRegister)
		})

		r.Route("/loans", func(r chi.Router) {
			r.Use(requireAPIKey(cfg.Authenticator, cfg.Logger))
			r.Get("/", cfg.Loans.HandleList)
			r.Post("/", cfg.Loans.HandleCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/schedule", cfg.Loans.HandleSchedule)
				r.Get("/summary", cfg.Loans.HandleSummary)
				r.Post("/share", cfg.Loans.HandleShare)
			})
		})
	})

	return r, nil
}
