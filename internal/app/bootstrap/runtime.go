package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hearthgrid/smarthouse/internal/adapters/cache"
	eventadapter "github.com/hearthgrid/smarthouse/internal/adapters/events"
	httpadapter "github.com/hearthgrid/smarthouse/internal/adapters/http"
	"github.com/hearthgrid/smarthouse/internal/adapters/postgres"
	"github.com/hearthgrid/smarthouse/internal/adapters/provisioning"
	"github.com/hearthgrid/smarthouse/internal/adapters/rabbitmq"
	"github.com/hearthgrid/smarthouse/internal/adapters/replica"
	"github.com/hearthgrid/smarthouse/internal/application"
	"github.com/hearthgrid/smarthouse/internal/ports"
)

func newLogger(cfg Config, component string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).
		With("service", cfg.ServiceID, "component", component)
	slog.SetDefault(logger)
	return logger
}

// APIRuntime hosts the device-management service: HTTP CRUD over the
// authoritative store plus the post-commit event publisher.
type APIRuntime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	cleanupFn  func(context.Context)
}

func NewAPIRuntime(ctx context.Context, configPath string) (*APIRuntime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, "devices-api")

	db, err := postgres.Connect(ctx, cfg.DevicesDatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	var deviceCache ports.DeviceCache
	cleanup := []func(){func() { _ = sqlDB.Close() }}
	if cfg.RedisURL != "" {
		redisClient, redisErr := cache.Connect(ctx, cfg.RedisURL)
		if redisErr != nil {
			logger.WarnContext(ctx, "redis unavailable, device cache disabled", "error", redisErr)
		} else {
			deviceCache = cache.NewRedisDeviceCache(redisClient, logger)
			cleanup = append(cleanup, func() { _ = redisClient.Close() })
		}
	}

	// The publisher connects lazily; the broker being down at boot does not
	// prevent the API from starting.
	var publisher ports.EventPublisher
	if cfg.BrokerURL != "" {
		broker := rabbitmq.NewPublisher(logger, cfg.BrokerURL, cfg.BrokerExchange)
		publisher = broker
		cleanup = append(cleanup, func() { _ = broker.Close() })
	} else {
		publisher = eventadapter.NewLoggingPublisher(logger)
	}

	service := application.NewDeviceService(application.DeviceServiceDeps{
		Logger:      logger,
		Devices:     postgres.NewDeviceRepository(db),
		Publisher:   publisher,
		Provisioner: provisioning.NewClient(cfg.SmartHomeURL),
		Cache:       deviceCache,
		CacheTTL:    cfg.DeviceCacheTTL,
	})

	router := httpadapter.NewDeviceRouter(httpadapter.NewDeviceHandler(service), logger)
	return &APIRuntime{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.APIHTTPPort),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		cleanupFn: func(context.Context) {
			for _, fn := range cleanup {
				fn()
			}
		},
	}, nil
}

func (r *APIRuntime) Run(ctx context.Context) error {
	return serveHTTP(ctx, r.logger, r.httpServer, r.cleanupFn)
}

// TelemetryRuntime hosts the event consumer and the readings API, the two
// faces of the derived store.
type TelemetryRuntime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	consumer   *rabbitmq.Consumer
	cleanupFn  func(context.Context)
}

func NewTelemetryRuntime(ctx context.Context, configPath string) (*TelemetryRuntime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, "telemetry")

	pool, err := replica.Connect(ctx, cfg.TelemetryDatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, err
	}
	if err := replica.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	store := replica.NewStore(pool)

	var consumer *rabbitmq.Consumer
	if cfg.BrokerURL != "" {
		consumer = rabbitmq.NewConsumer(logger, cfg.BrokerURL, rabbitmq.Topology{
			Exchange: cfg.BrokerExchange,
			Queue:    cfg.BrokerQueue,
			Binding:  cfg.BrokerBinding,
		}, cfg.BrokerPrefetch, application.NewReplicator(logger, store))
	} else {
		logger.WarnContext(ctx, "broker disabled, replication consumer not started")
	}

	service := application.NewTelemetryService(store, nil)
	router := httpadapter.NewTelemetryRouter(httpadapter.NewTelemetryHandler(service), logger)
	return &TelemetryRuntime{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.TelemetryHTTPPort),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		consumer:  consumer,
		cleanupFn: func(context.Context) { pool.Close() },
	}, nil
}

// Run serves the readings API and the consumer loop until a signal arrives
// or either fails. A consumer failure is fatal; restarting is the job of
// process supervision, not an internal retry loop.
func (r *TelemetryRuntime) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	if r.consumer != nil {
		go func() {
			if err := r.consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- err
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
		runErr = err
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn(shutdownCtx)
	return runErr
}

// TemperatureRuntime hosts the stateless temperature-sampling API.
type TemperatureRuntime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
}

func NewTemperatureRuntime(_ context.Context, configPath string) (*TemperatureRuntime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, "temperature-api")
	service := application.NewTemperatureService(nil, nil)
	router := httpadapter.NewTemperatureRouter(httpadapter.NewTemperatureHandler(service), logger)
	return &TemperatureRuntime{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.TemperatureHTTPPort),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func (r *TemperatureRuntime) Run(ctx context.Context) error {
	return serveHTTP(ctx, r.logger, r.httpServer, func(context.Context) {})
}

func serveHTTP(ctx context.Context, logger *slog.Logger, server *http.Server, cleanup func(context.Context)) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.ErrorContext(ctx, "runtime failure", "error", err)
		runErr = err
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	cleanup(shutdownCtx)
	return runErr
}
