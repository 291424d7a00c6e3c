package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/internal/config"
	"github.com/kailas-cloud/sieve/internal/db"
	dbRedis "github.com/kailas-cloud/sieve/internal/db/redis"
	logpkg "github.com/kailas-cloud/sieve/internal/logger"
	"github.com/kailas-cloud/sieve/internal/metrics"
	chiTransport "github.com/kailas-cloud/sieve/internal/transport/chi"
	healthuc "github.com/kailas-cloud/sieve/internal/usecase/health"
	queryuc "github.com/kailas-cloud/sieve/internal/usecase/query"
	"github.com/kailas-cloud/sieve/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, "sieve", cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting sieve API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Int("datasets", len(cfg.Datasets)),
	)

	// Register query metrics explicitly (no init())
	metrics.RegisterQueryMetrics()

	// Redis is only needed when a dataset lives there.
	// Pass nil interface (not typed nil pointer!) to health when absent.
	var (
		store  db.Store
		pinger healthuc.DBPinger
	)
	if cfg.NeedsDatabase() {
		rs, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		store = rs
		defer store.Close()

		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		pinger = store
		logger.Info("Connected to database", zap.Strings("db_addrs", cfg.Database.Addrs))
	}

	querySvc := queryuc.New(logger)
	for _, dc := range cfg.Datasets {
		ds, loader, err := buildDataset(dc, store, cfg.Storage.KeyPrefix)
		if err != nil {
			logger.Fatal("Invalid dataset", logpkg.Dataset(dc.Name), zap.Error(err))
		}
		if err := querySvc.Register(ds, loader); err != nil {
			logger.Fatal("Failed to register dataset", logpkg.Dataset(dc.Name), zap.Error(err))
		}
		logger.Info("Dataset registered",
			logpkg.Dataset(ds.Name()),
			zap.String("kind", string(ds.Kind())),
			zap.String("location", ds.Location()),
			zap.Duration("delay", ds.Delay()),
		)
	}

	healthSvc := healthuc.New(pinger, querySvc)
	warmUp(healthSvc, logger)

	server := chiTransport.NewServer(querySvc, healthSvc, chiTransport.Limits{
		DefaultPageSize: cfg.Query.DefaultPageSize,
		MaxPageSize:     cfg.Query.MaxPageSize,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not_found", "route not found")
	})
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// warmUp probes every dataset once so broken sources show up in the startup log.
// Failures are not fatal: datasets are resolved again on every query.
func warmUp(health *healthuc.Service, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report := health.Check(ctx)
	for name, result := range report.Checks {
		if result != healthuc.CheckOK {
			logger.Warn("Startup check failed", zap.String("check", name))
		}
	}
	logger.Info("Startup checks complete", zap.String("status", string(report.Status)))
}
