// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpAdapter "github.com/gentext/gentext-gw/pkg/adapters/http"
	"github.com/gentext/gentext-gw/pkg/archive"
	"github.com/gentext/gentext-gw/pkg/core/api"
	"github.com/gentext/gentext-gw/pkg/core/config"
	"github.com/gentext/gentext-gw/pkg/core/services"
	"github.com/gentext/gentext-gw/pkg/observability/logging"
	"github.com/gentext/gentext-gw/pkg/storage"

	// Storage backends register themselves on import.
	_ "github.com/gentext/gentext-gw/pkg/storage/memory"
	_ "github.com/gentext/gentext-gw/pkg/storage/postgres"
	_ "github.com/gentext/gentext-gw/pkg/storage/sqlite"

	// Archive backends register themselves on import.
	_ "github.com/gentext/gentext-gw/pkg/archive/filesystem"
	_ "github.com/gentext/gentext-gw/pkg/archive/memory"
	_ "github.com/gentext/gentext-gw/pkg/archive/s3"
)

var (
	// Version is set via ldflags during build
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	port := flag.Int("port", 8080, "HTTP port to listen on")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("Gentext Gateway Server\nVersion: %s\nBuild Time: %s\n", Version, BuildTime)
		os.Exit(0)
	}

	// Load .env if present; environment overrides still win over file config.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
	}

	// Override port if specified
	if *port != 8080 {
		cfg.Server.Port = *port
	}

	// Initialize logger
	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger.Info("Starting Gentext Gateway Server",
		"version", Version,
		"build_time", BuildTime)

	initCtx := context.Background()

	// Initialize extraction record storage
	store, err := storage.Providers.New(initCtx, cfg.Storage.Type, cfg.Storage.Params)
	if err != nil {
		logger.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())
	logger.Info("Initialized storage", "type", cfg.Storage.Type)

	// Initialize raw payload archive
	payloads, err := archive.Providers.New(initCtx, cfg.Archive.Type, cfg.Archive.Params)
	if err != nil {
		logger.Error("Failed to initialize archive", "type", cfg.Archive.Type, "error", err)
		os.Exit(1)
	}
	defer payloads.Close(context.Background())
	logger.Info("Initialized archive", "type", cfg.Archive.Type)

	// Initialize upstream client (optional)
	var upstream api.UpstreamClient
	if cfg.Upstream.Endpoint != "" {
		upstream = api.NewOpenAIUpstream(cfg.Upstream.Endpoint, cfg.Upstream.APIKey, cfg.Upstream.Model)
		logger.Info("Initialized upstream client", "endpoint", cfg.Upstream.Endpoint, "model", cfg.Upstream.Model)
	}

	// Initialize extraction service
	service := services.NewExtractionService(store, payloads, upstream, logger)
	logger.Info("Initialized extraction service")

	// Initialize HTTP adapter
	handler := httpAdapter.New(service, logger, cfg.BaseURL())
	logger.Info("Initialized HTTP adapter", "base_url", cfg.BaseURL())

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	go func() {
		logger.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
