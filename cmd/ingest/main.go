// Command ingest loads the transactions CSV into a SQLite or Postgres
// snapshot that the dashboard can read with DATA_BACKEND=sqlite|postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"momodash/internal/cli"
	"momodash/internal/config"
	"momodash/internal/core"
	"momodash/internal/dataset"
	applog "momodash/internal/log"
	"momodash/internal/storage"
)

func main() {
	csvPath := flag.String("csv", "", "CSV file to ingest (defaults to CSV_PATH)")
	flag.Parse()

	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentStorage, func(c *config.Config) error {
		if *csvPath != "" {
			c.CSVPath = *csvPath
		}
		return c.ValidateIngest()
	})

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "Ingest failed", applog.FieldOperation, applog.OpIngest, applog.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	var (
		txs    []core.Transaction
		report dataset.LoadReport
		repo   *storage.Repository
	)

	// Parse the CSV and open the target concurrently; both may be slow.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, report, err = dataset.NewCSVSource(cfg.CSVPath).Load(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		switch cfg.DataBackend {
		case config.BackendSQLite:
			repo, err = storage.OpenSQLite(gctx, cfg.SQLiteDBPath)
		case config.BackendPostgres:
			repo, err = storage.OpenPostgres(gctx, cfg.PostgresDSN)
		default:
			err = fmt.Errorf("unsupported ingest target %q", cfg.DataBackend)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		if repo != nil {
			repo.Close()
		}
		return err
	}
	defer repo.Close()

	for _, p := range report.Problems {
		logger.WarnContext(ctx, "Skipping malformed row", "line", p.Line, "column", p.Column, applog.FieldError, p.Err)
	}
	if err := repo.ReplaceAll(ctx, txs); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Snapshot written",
		applog.FieldOperation, applog.OpIngest,
		"target", cfg.DataBackend,
		applog.FieldRows, len(txs),
		"skipped", report.Skipped)
	return nil
}
