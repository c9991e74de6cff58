package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/exome-prioritizer/internal/analysis"
	"github.com/exome-prioritizer/internal/api"
	"github.com/exome-prioritizer/internal/config"
	"github.com/exome-prioritizer/internal/dao"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := newLogger(cfg.Logging)
	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting exome prioritizer server")

	dataService, closeStore, err := buildDataService(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize variant data providers")
	}
	if closeStore != nil {
		defer closeStore()
	}

	runner := analysis.NewSimpleRunner(logger,
		analysis.WithDownweightThreshold(cfg.Analysis.DownweightVariantCountThreshold),
		analysis.WithVariantWorkers(cfg.Analysis.VariantWorkers),
	)

	server := api.NewServer(cfg.Server, logger, runner, dataService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
	logger.Info("Server stopped")
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// buildDataService wires the configured annotation providers: the remote
// service when a URL is set, the embedded store otherwise, both behind the
// LRU cache. With neither a URL nor a store path, no data service is built.
func buildDataService(cfg *config.Config, logger *logrus.Logger) (*dao.VariantDataService, func() error, error) {
	if cfg.Data.RemoteURL != "" {
		client := dao.NewRemoteAnnotationClient(dao.RemoteClientConfig{
			BaseURL:   cfg.Data.RemoteURL,
			Timeout:   cfg.Data.RemoteTimeout,
			RateLimit: rate.Limit(cfg.Data.RemoteRateLimit),
		}, logger)
		cached, err := dao.NewCachedVariantDataDAO(client, client, cfg.Data.CacheSize)
		if err != nil {
			return nil, nil, err
		}
		return dao.NewVariantDataService(cached, cached, logger), nil, nil
	}

	if cfg.Data.StorePath == "" {
		return nil, nil, nil
	}
	store, err := dao.NewVariantStore(cfg.Data.StorePath)
	if err != nil {
		return nil, nil, err
	}
	cached, err := dao.NewCachedVariantDataDAO(store, store, cfg.Data.CacheSize)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return dao.NewVariantDataService(cached, cached, logger), store.Close, nil
}
