package backend

import (
	"context"

	"momodash/internal/dataset"
)

// CleanupFunc releases resources held by a source.
type CleanupFunc func() error

// PingFunc reports whether the underlying store is reachable. Sources that
// were read once and hold nothing open leave it nil.
type PingFunc func(ctx context.Context) error

// SourceResult contains the dataset source and its lifecycle hooks.
type SourceResult struct {
	Source  dataset.Source
	Cleanup CleanupFunc
	Ping    PingFunc
}

// Factory creates dataset sources based on configuration.
type Factory interface {
	CreateSource(ctx context.Context, config Config) (*SourceResult, error)
}

// Config holds configuration for source creation.
type Config struct {
	Type BackendType

	CSVPath string

	SQLiteDBPath string
	PostgresDSN  string

	GoogleSpreadsheetID      string
	GoogleSheetRange         string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
}

// BackendType names where the transaction dataset is read from.
type BackendType string

const (
	CSVBackend      BackendType = "csv"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
	SheetsBackend   BackendType = "sheets"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, SQLiteBackend, PostgresBackend, SheetsBackend:
		return true
	default:
		return false
	}
}
