package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soltixdb/roomsense/internal/cache"
	"github.com/soltixdb/roomsense/internal/config"
	"github.com/soltixdb/roomsense/internal/logging"
	"github.com/soltixdb/roomsense/internal/router"
	"github.com/soltixdb/roomsense/internal/services"
	"github.com/soltixdb/roomsense/internal/simulator"
	"github.com/soltixdb/roomsense/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Dashboard service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	// Simulate the room dataset
	simCfg := simulator.DefaultConfig()
	simCfg.Seed = cfg.Dataset.Seed
	source, err := simulator.NewSource(simCfg, logger)
	if err != nil {
		logger.Fatal("Failed to generate dataset", "error", err)
	}
	table := source.Table()
	logger.Info("Dataset ready",
		"dataset_id", table.ID(),
		"rows", table.Len(),
		"room_area_m2", source.RoomAreaM2())

	if err := source.Start(cfg.Dataset.RefreshSchedule); err != nil {
		logger.Fatal("Failed to schedule dataset refresh", "error", err)
	}

	// Result cache (configurable backend)
	logger.Info("Initializing result cache", "type", cfg.Cache.Type, "ttl", cfg.Cache.TTL.String())
	resultCache, err := cache.NewCache(cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to initialize cache", "error", err)
	}
	defer func() { _ = resultCache.Close() }()

	// Log authentication status
	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	analysisService := services.NewAnalysisService(logger, source, resultCache, cfg.Analysis)
	app := router.New(logger, analysisService, cfg)

	// Start server in goroutine
	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	source.Stop(shutdownCtx)

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
