// Package cli provides common initialization shared by cmd/moneta and
// cmd/moneta-sweep.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"moneta/internal/config"
	"moneta/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging at the given level and
// sets it as the default logger.
func SetupLogger(level string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentApp,
		Handler:   slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: log.ParseLevel(level)}),
	})
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// GracefulShutdown returns a context cancelled on SIGINT/SIGTERM. The
// cleanup function runs once a signal arrives, bounded by timeout.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Shutdown signal received", "signal", sig.String())
		done := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(timeout):
			logger.Warn("Cleanup timed out", "timeout", timeout)
		}
		cancel()
	}()

	return ctx
}
