// Package cli holds the start-up steps shared by cmd/dashboard,
// cmd/ingest and cmd/audit-worker.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"momodash/internal/config"
	applog "momodash/internal/log"
)

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default. An unknown level falls back to info.
func SetupLogger(cfg *config.Config, component string) *applog.Logger {
	level, err := applog.ParseLevel(cfg.LogLevel)
	logger := applog.New(applog.Config{Level: level, Format: cfg.LogFormat, Component: component})
	applog.SetDefault(logger)
	if err != nil {
		logger.WarnContext(context.Background(), "Falling back to info level", applog.FieldError, err)
	}
	return logger
}

// LoadAndValidateConfig loads the environment and runs validate against it,
// exiting the process on failure.
func LoadAndValidateConfig(component string, validate func(*config.Config) error) (*config.Config, *applog.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg, component)
	if err := validate(cfg); err != nil {
		logger.ErrorContext(context.Background(), "Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sig)
		select {
		case s := <-sig:
			logger.InfoContext(ctx, "Shutdown signal received", "signal", s.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// GracefulShutdown runs every cleanup step within timeout and returns the
// joined errors. Steps still running at the deadline are abandoned.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, steps ...func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		var errs []error
		for _, step := range steps {
			if err := step(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.WarnContext(ctx, "Shutdown finished with errors", applog.FieldError, err)
		} else {
			logger.InfoContext(ctx, "Shutdown complete")
		}
		return err
	case <-ctx.Done():
		logger.WarnContext(ctx, "Shutdown timeout reached")
		return ctx.Err()
	}
}

// Cleanups collects shutdown steps as a binary opens its resources. If
// start-up fails before the steps are handed to GracefulShutdown, Release
// runs them so nothing opened so far leaks.
type Cleanups struct {
	steps    []func(context.Context) error
	handedOff bool
}

func (c *Cleanups) Add(step func(context.Context) error) {
	c.steps = append(c.steps, step)
}

// HandOff returns the collected steps and makes Release a no-op. The
// caller becomes responsible for running them.
func (c *Cleanups) HandOff() []func(context.Context) error {
	c.handedOff = true
	return c.steps
}

// Release runs the collected steps unless they were handed off. It is meant
// to be deferred right after the Cleanups is declared.
func (c *Cleanups) Release(logger *applog.Logger, timeout time.Duration) error {
	if c.handedOff || len(c.steps) == 0 {
		return nil
	}
	return GracefulShutdown(logger, timeout, c.steps...)
}
