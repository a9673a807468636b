package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bibbank/amortization/internal/application/usecase"
	"github.com/bibbank/amortization/internal/domain/port"
	"github.com/bibbank/amortization/internal/domain/service"
	"github.com/bibbank/amortization/internal/infrastructure/cache"
	"github.com/bibbank/amortization/internal/infrastructure/config"
	"github.com/bibbank/amortization/internal/infrastructure/kafka"
	"github.com/bibbank/amortization/internal/infrastructure/messaging"
	"github.com/bibbank/amortization/internal/infrastructure/persistence/memory"
	pgRepo "github.com/bibbank/amortization/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/amortization/internal/presentation/authn"
	grpcPresentation "github.com/bibbank/amortization/internal/presentation/grpc"
	"github.com/bibbank/amortization/internal/presentation/rest"
	pkgkafka "github.com/bibbank/amortization/pkg/kafka"
	"github.com/bibbank/amortization/pkg/observability"
	pkgpostgres "github.com/bibbank/amortization/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// Load configuration.
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("amortization-service failed", "error", err)
		os.Exit(1)
	}
	logger.Info("amortization-service stopped")
}

// resources collects what run must release on exit.
type resources struct {
	loans     port.LoanRepository
	users     port.UserRepository
	cache     port.ScheduleCache
	publisher port.EventPublisher
	checks    map[string]rest.Checker
	closers   []func()
}

func (r *resources) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting amortization-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"storage", cfg.Storage,
	)

	// Initialize tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck

	res := &resources{checks: map[string]rest.Checker{}}
	defer res.close()

	if err := openStorage(ctx, cfg, logger, res); err != nil {
		return err
	}
	openCache(cfg, logger, res)
	if err := openPublisher(cfg, logger, res); err != nil {
		return err
	}

	// Wire use cases.
	policy := service.NewAccessPolicy()
	registerUC := usecase.NewRegisterUserUseCase(res.users, res.publisher)
	listUsersUC := usecase.NewListUsersUseCase(res.users)
	authenticateUC := usecase.NewAuthenticateUseCase(res.users)
	createLoanUC := usecase.NewCreateLoanUseCase(res.loans, res.publisher)
	listLoansUC := usecase.NewListLoansUseCase(res.loans, policy)
	scheduleUC := usecase.NewGetScheduleUseCase(res.loans, res.cache, policy)
	summaryUC := usecase.NewGetMonthSummaryUseCase(res.loans, policy)
	shareUC := usecase.NewShareLoanUseCase(res.loans, res.users, res.publisher, policy)

	authenticator := authn.New(authenticateUC)

	// gRPC server.
	grpcServer, err := grpcPresentation.NewServer(
		grpcPresentation.NewLoanHandler(createLoanUC, listLoansUC, scheduleUC, summaryUC, shareUC),
		authenticator, logger,
		grpcPresentation.ServerOptions{
			TLSCertFile: cfg.TLSCertFile,
			TLSKeyFile:  cfg.TLSKeyFile,
			Reflection:  cfg.GRPCReflection,
		},
	)
	if err != nil {
		return err
	}

	// HTTP server.
	router, err := rest.NewRouter(ctx, rest.RouterConfig{
		Users:         rest.NewUserHandler(registerUC, listUsersUC, logger),
		Loans:         rest.NewLoanHandler(createLoanUC, listLoansUC, scheduleUC, summaryUC, shareUC, logger),
		Health:        rest.NewHealthHandler(cfg.ServiceName, res.checks, logger),
		Authenticator: authenticator,
		RateLimit: rest.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		},
		Meter:   meterProvider.Meter("github.com/bibbank/amortization"),
		Metrics: metricsHandler,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	return serveErr
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger, res *resources) error {
	if cfg.Storage != config.StoragePostgres {
		res.loans = memory.NewLoanRepo()
		res.users = memory.NewUserRepo()
		logger.Warn("using in-memory storage; data is lost on restart")
		return nil
	}

	pgCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	}

	// Run database migrations.
	var migErr error
	if cfg.DB.MigrationsPath != "" {
		migErr = pkgpostgres.RunMigrations(pgCfg.DSN(), cfg.DB.MigrationsPath)
	} else {
		migErr = pkgpostgres.RunEmbeddedMigrations(pgCfg.DSN(), pgRepo.Migrations, pgRepo.MigrationsDir)
	}
	if migErr != nil {
		return fmt.Errorf("run migrations: %w", migErr)
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	res.closers = append(res.closers, pool.Close)
	logger.Info("connected to database", "host", cfg.DB.Host, "database", cfg.DB.Name)

	res.loans = pgRepo.NewLoanRepo(pool)
	res.users = pgRepo.NewUserRepo(pool)
	res.checks["postgres"] = func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) }
	return nil
}

func openCache(cfg config.Config, logger *slog.Logger, res *resources) {
	if cfg.Redis.Addr == "" {
		res.cache = cache.NewMemoryScheduleCache(cfg.Redis.TTL)
		return
	}

	redisCache := cache.NewRedisScheduleCache(
		cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB),
		cfg.Redis.TTL,
	)
	res.cache = redisCache
	res.closers = append(res.closers, func() { _ = redisCache.Close() })
	res.checks["redis"] = redisCache.Ping
	logger.Info("schedule cache backed by redis", "addr", cfg.Redis.Addr)
}

func openPublisher(cfg config.Config, logger *slog.Logger, res *resources) error {
	if len(cfg.Kafka.Brokers) == 0 {
		res.publisher = messaging.NewLogEventPublisher(logger)
		logger.Info("no kafka brokers configured, logging domain events")
		return nil
	}

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLMechanism != "",
		SASLMechanism: strings.ToUpper(cfg.Kafka.SASLMechanism),
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	})
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	res.closers = append(res.closers, func() { _ = producer.Close() })
	res.publisher = kafka.NewEventPublisher(producer, cfg.Kafka.Topic, logger)
	logger.Info("publishing domain events to kafka", "topic", cfg.Kafka.Topic, "brokers", cfg.Kafka.Brokers)
	return nil
}
