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

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/config"
	dbRedis "github.com/kailas-cloud/docsearch/internal/db/redis"
	"github.com/kailas-cloud/docsearch/internal/engine"
	logpkg "github.com/kailas-cloud/docsearch/internal/logger"
	"github.com/kailas-cloud/docsearch/internal/metrics"
	documentrepo "github.com/kailas-cloud/docsearch/internal/repository/document"
	chiTransport "github.com/kailas-cloud/docsearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/docsearch/internal/usecase/ingest"
	"github.com/kailas-cloud/docsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docsearch server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("source_driver", cfg.Source.Driver),
		zap.Strings("source_addrs", cfg.Source.Addrs),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engineMetrics, err := metrics.NewEngine(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("Failed to register engine metrics", zap.Error(err))
	}

	defaults := cfg.Engine.SearchDefaults()
	eng, err := engine.New(engine.Config{
		CacheSize: cfg.Engine.CacheSize,
		QueueSize: cfg.Engine.QueueSize,
		Defaults:  &defaults,
	}, logger.Named("engine"), engineMetrics)
	if err != nil {
		logger.Fatal("Failed to create engine", zap.Error(err))
	}

	engineCtx, stopEngine := context.WithCancel(context.Background())
	defer stopEngine()
	go func() {
		if err := eng.Run(engineCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Engine stopped", zap.Error(err))
		}
	}()

	// Pass a nil interface, not a typed nil pointer, when no source is configured.
	var sourcePinger healthuc.SourcePinger
	if cfg.Source.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Source.Addrs,
			Password: cfg.Source.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create source store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Source.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Document source not ready", zap.Error(err))
		}
		logger.Info("Connected to document source")
		sourcePinger = store

		ingest := ingestuc.New(
			documentrepo.New(store, cfg.Source.KeyPrefix), eng, logger.Named("ingest"),
		)
		n, err := ingest.Initialize(ctx)
		if err != nil {
			logger.Fatal("Initial document load failed", zap.Error(err))
		}
		logger.Info("Documents indexed", zap.Int("documents", n))

		if cfg.Source.RefreshInterval > 0 {
			go ingest.RunRefresh(ctx, time.Duration(cfg.Source.RefreshInterval)*time.Second)
		}
	}

	healthSvc := healthuc.New(eng, sourcePinger)
	server := chiTransport.NewServer(
		eng, healthSvc, logger, time.Duration(cfg.HTTP.RequestTimeout)*time.Second,
	)
	handler := chiTransport.NewRouter(server, logger, cfg.Auth.APIKeys, metrics.Middleware())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	stopEngine()
	select {
	case <-eng.Done():
	case <-shutdownCtx.Done():
		logger.Warn("Engine did not stop before shutdown deadline")
	}

	logger.Info("Server stopped gracefully")
}
