package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rangeforge/handviz/internal/config"
	"github.com/rangeforge/handviz/internal/logger"
	"github.com/rangeforge/handviz/internal/pipeline"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// Default logger so config load failures are reported consistently;
	// reconfigured below once the configured level and format are known.
	logger.Init("info", "json")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	// Graceful shutdown: in-flight scenarios finish and commit, the rest are
	// not scheduled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("Shutdown signal received, finishing in-flight scenarios...")
		cancel()
	}()

	logger.Info("Starting visualization run (input: %s, output: %s, band: [%v, %v], workers: %d)",
		cfg.Pipeline.InputRoot,
		cfg.Pipeline.OutputRoot,
		cfg.Filter.MinEV,
		cfg.Filter.MaxEV,
		cfg.WorkerCount(),
	)

	start := time.Now()
	stats, failures, err := pipeline.Run(ctx, cfg)
	if err != nil && err != context.Canceled {
		logger.Fatal("Run aborted: %v", err)
	}

	for _, f := range failures {
		logger.Error("%v", &f)
	}
	logger.Info("Run completed in %v: %d files, %d scenarios (%d failed), %d/%d hands retained",
		time.Since(start).Round(time.Millisecond),
		stats.Files,
		stats.Scenarios,
		stats.FailedScenarios,
		stats.RetainedHands,
		stats.TotalHands,
	)

	if stats.FailedScenarios > 0 {
		os.Exit(1)
	}
}
