// Command audit-worker consumes login attempt events and writes them to the
// structured log with running counters.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"momodash/internal/amqp"
	"momodash/internal/cli"
	"momodash/internal/config"
	applog "momodash/internal/log"
	"momodash/internal/worker"
)

const reportInterval = 5 * time.Minute

func main() {
	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentWorker, (*config.Config).ValidateWorker)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}

	w := worker.NewAuditWorker(logger.Logger)
	go w.ReportEvery(ctx, reportInterval)

	logger.InfoContext(ctx, "Starting audit worker", "queue", cfg.AMQPQueue)
	err = client.ConsumeLoginAttempts(ctx, w.HandleLoginAttempt)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "Message consumption failed", applog.FieldError, err)
	}

	_ = cli.GracefulShutdown(logger, 10*time.Second, func(context.Context) error { return client.Close() })
	stats := w.Stats()
	logger.InfoContext(context.Background(), "Audit worker stopped", "attempts", stats.Attempts, "failures", stats.Failures)
}
