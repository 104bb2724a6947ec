package backend

import (
	"context"
	"fmt"
	"log/slog"

	"momodash/internal/dataset"
	gsheet "momodash/internal/sheets/google"
	"momodash/internal/storage"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (*SourceResult, error) {
	switch config.Type {
	case CSVBackend:
		f.logger.Info("Using CSV dataset", "path", config.CSVPath)
		return &SourceResult{Source: dataset.NewCSVSource(config.CSVPath)}, nil
	case SQLiteBackend:
		repo, err := storage.OpenSQLite(ctx, config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Using SQLite dataset", "db_path", config.SQLiteDBPath)
		return &SourceResult{Source: repo, Cleanup: repo.Close, Ping: repo.Ping}, nil
	case PostgresBackend:
		repo, err := storage.OpenPostgres(ctx, config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		f.logger.Info("Using Postgres dataset")
		return &SourceResult{Source: repo, Cleanup: repo.Close, Ping: repo.Ping}, nil
	case SheetsBackend:
		cli, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:      config.GoogleSpreadsheetID,
			Range:              config.GoogleSheetRange,
			ServiceAccountJSON: config.GoogleServiceAccountJSON,
			ServiceAccountFile: config.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Using Google Sheets dataset", "range", config.GoogleSheetRange)
		return &SourceResult{Source: cli}, nil
	default:
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}
}
