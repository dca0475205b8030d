package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/okian/devtrack/internal/adapters/auth"
	"github.com/okian/devtrack/internal/adapters/http/api"
	"github.com/okian/devtrack/internal/adapters/http/swagger"
	"github.com/okian/devtrack/internal/adapters/mailer"
	"github.com/okian/devtrack/internal/adapters/repository"
	"github.com/okian/devtrack/internal/adapters/spreadsheet"
	service "github.com/okian/devtrack/internal/app"
	"github.com/okian/devtrack/internal/config"
	"github.com/okian/devtrack/pkg/logger"
	"github.com/okian/devtrack/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	redisPingTimeout          = 3 * time.Second
	systemMetricsInterval     = 10 * time.Second
	userMetricsInterval       = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := initLogging(cfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	a, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	go startSystemMetricsUpdater(ctx)
	go startUserMetricsUpdater(ctx, a.store)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("db_driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// initLogging re-initializes the global logger from configuration.
func initLogging(cfg *config.Config) error {
	opts := []logger.Option{logger.WithLevel(cfg.LogLevel), logger.WithFormat(cfg.LogFormat)}
	if cfg.LogFile != "" {
		opts = append(opts, logger.WithFile(cfg.LogFile, cfg.LogFileMaxSizeMB, cfg.LogFileBackups, cfg.LogFileMaxAgeDay))
	}
	return logger.Init(opts...)
}

// application holds the wired components and what must be closed on exit.
type application struct {
	store   *repository.Store
	redis   *redis.Client
	service *service.Service
	handler http.Handler
}

func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	log := logger.Get()

	store, err := repository.Open(ctx, repository.Config{
		Driver:   cfg.DBDriver,
		DSN:      cfg.DBDSN,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
	},
		repository.WithMaxOpenConns(cfg.DBMaxOpenConns),
		repository.WithConnMaxLifetime(cfg.DBConnMaxLifetime),
		repository.WithQueryLogging(cfg.DBQueryLog),
		repository.WithLogger(logger.Named("repository")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a := &application{store: store}

	var revoker auth.Revoker = auth.NewMemoryRevoker()
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		err := a.redis.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		revoker = auth.NewRedisRevoker(a.redis)
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to build token issuer: %w", err)
	}

	sender := mailer.New(cfg.EmailAPIKey,
		mailer.WithHost(cfg.EmailAPIHost),
		mailer.WithFrom(cfg.EmailFrom, cfg.EmailFromName),
	)
	if !sender.Configured() {
		log.Warn(ctx, "email_api_key is not set; exports will fail")
	}

	a.service = service.New(store, issuer,
		service.WithHasher(auth.NewHasher(cfg.BcryptCost)),
		service.WithRevoker(revoker),
		service.WithMailer(sender),
		service.WithGenerator(spreadsheet.NewGenerator(spreadsheet.WithColumnWidth(cfg.ExportColumnWidth))),
		service.WithLogger(logger.Named("service")),
	)
	if err := a.service.BootstrapAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminDisplayName); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	apiServer := api.NewServer(a.service,
		api.WithLogger(logger.Named("http")),
		api.WithReadiness(store.Ping),
	)
	apiServer.Register(ctx, mux)
	a.handler = apiServer.Handler(mux)
	return a, nil
}

// Close releases the database and redis connections.
func (a *application) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startUserMetricsUpdater keeps the users-by-status gauge current.
func startUserMetricsUpdater(ctx context.Context, store *repository.Store) {
	ticker := time.NewTicker(userMetricsInterval)
	defer ticker.Stop()

	updateUserMetrics(ctx, store)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateUserMetrics(ctx, store)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

func updateUserMetrics(ctx context.Context, store *repository.Store) {
	counts, err := store.CountUsersByStatus(ctx)
	if err != nil {
		logger.Get().Warn(ctx, "user metrics refresh failed", logger.Error(err))
		return
	}
	for st, n := range counts {
		metrics.UpdateUsersByStatus(string(st), n)
	}
}
