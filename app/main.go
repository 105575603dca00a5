package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexlern/briefing/app/api"
	"github.com/nexlern/briefing/app/briefing"
	"github.com/nexlern/briefing/app/cfg"
	"github.com/nexlern/briefing/app/database"
	"github.com/nexlern/briefing/app/reader"
	"github.com/nexlern/briefing/app/tasks"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appConfig.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting briefing server", "version", appConfig.Version)

	db, err := database.NewConnection(appConfig.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appConfig.DBPath, "migration_version", version, "dirty", dirty)

	// Repositories
	sourceRepo := database.NewSourceRepository(db)
	itemRepo := database.NewItemRepository(db)
	runRepo := database.NewRunRepository(db)
	configRepo := database.NewConfigRepository(db)

	// Seed sources from the optional YAML file; operator API edits win later
	seeds, err := briefing.LoadSeedSources(appConfig.SourcesFile)
	if err != nil {
		slog.Error("Failed to load seed sources", "file", appConfig.SourcesFile, "error", err)
		os.Exit(1)
	}
	seededCount := 0
	for _, seed := range seeds {
		created, err := sourceRepo.SeedSource(seed.Name, seed.URL, seed.Category)
		if err != nil {
			slog.Warn("Failed to seed source", "source", seed.Name, "error", err)
			continue
		}
		if created {
			seededCount++
		}
	}
	if len(seeds) > 0 {
		slog.Info("Seed sources synced", "file", appConfig.SourcesFile, "total", len(seeds), "new", seededCount)
	}

	// Core components
	httpClient := &http.Client{Timeout: time.Duration(appConfig.FetchTimeout) * time.Second}
	settings := briefing.NewSettingsLoader(configRepo)
	ingestor := briefing.NewIngestor(sourceRepo, itemRepo, runRepo, settings,
		briefing.NewParser(), briefing.NewClassifier(), httpClient,
		appConfig.UserAgent, time.Duration(appConfig.FetchTimeout)*time.Second,
		appConfig.WorkerCount)
	extractor := reader.NewExtractor()

	// Background scheduler
	scheduler := tasks.NewScheduler(ingestor, itemRepo, httpClient)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appConfig.WorkerCount, "tick_interval", appConfig.TickInterval)

	// HTTP server
	handler := api.NewHandler(sourceRepo, itemRepo, runRepo, configRepo,
		settings, ingestor, extractor, httpClient)
	server := api.NewServer(handler, appConfig.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
