package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"momodash/internal/core"
	"momodash/internal/dataset"
)

// Driver selects the SQL backend of a snapshot repository.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

func (d Driver) sqlName() string {
	return string(d)
}

// Repository keeps a snapshot of the transaction dataset in SQLite or
// Postgres. The dashboard only reads it; cmd/ingest replaces it.
type Repository struct {
	db     *sql.DB
	driver Driver
	name   string
}

var _ dataset.Source = (*Repository)(nil)

// OpenSQLite opens (creating if needed) a SQLite snapshot at dbPath.
func OpenSQLite(ctx context.Context, dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return open(ctx, DriverSQLite, dbPath, dbPath)
}

// OpenPostgres opens a Postgres snapshot.
func OpenPostgres(ctx context.Context, dsn string) (*Repository, error) {
	return open(ctx, DriverPostgres, dsn, "postgres")
}

func open(ctx context.Context, driver Driver, dsn, name string) (*Repository, error) {
	db, err := sql.Open(driver.sqlName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(driver, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.InfoContext(ctx, "Storage ready", "component", "storage", "driver", driver, "name", name)
	return &Repository{db: db, driver: driver, name: name}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) selectQuery() string {
	amount := "amount"
	if r.driver == DriverPostgres {
		amount = "amount::text"
	}
	return `SELECT transaction_id, date, time, province, district, transaction_type, status, channel, ` +
		amount + `, agent_id FROM transactions ORDER BY row_id`
}

// Load implements dataset.Source. Rows go through the same parser as CSV
// input, so a snapshot written by hand is validated like any other source.
func (r *Repository) Load(ctx context.Context) ([]core.Transaction, dataset.LoadReport, error) {
	source := string(r.driver) + ":" + r.name
	rows, err := r.db.QueryContext(ctx, r.selectQuery())
	if err != nil {
		return nil, dataset.LoadReport{Source: source}, &dataset.LoadError{Source: source, Err: fmt.Errorf("query transactions: %w", err)}
	}
	defer rows.Close()

	records := [][]string{dataset.Columns}
	for rows.Next() {
		rec := make([]string, len(dataset.Columns))
		dest := make([]any, len(rec))
		for i := range rec {
			dest[i] = &rec[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, dataset.LoadReport{Source: source}, &dataset.LoadError{Source: source, Err: fmt.Errorf("scan transaction: %w", err)}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, dataset.LoadReport{Source: source}, &dataset.LoadError{Source: source, Err: err}
	}
	return dataset.ParseRecords(source, records, 0)
}

func (r *Repository) insertQuery() string {
	ph := make([]string, len(dataset.Columns))
	for i := range ph {
		if r.driver == DriverPostgres {
			ph[i] = "$" + strconv.Itoa(i+1)
		} else {
			ph[i] = "?"
		}
	}
	return "INSERT INTO transactions (" + strings.Join(dataset.Columns, ", ") + ") VALUES (" + strings.Join(ph, ", ") + ")"
}

// ReplaceAll swaps the whole snapshot inside one transaction. Readers see
// either the old or the new dataset, never a mix.
func (r *Repository) ReplaceAll(ctx context.Context, txs []core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, r.insertQuery())
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.Date.String(), t.Clock(), t.Province, t.District, t.Type,
			string(t.Status), t.Channel, t.Amount.String(), t.AgentID,
		); err != nil {
			return fmt.Errorf("insert %s %s: %w", t.ID, t.Date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	slog.InfoContext(ctx, "Snapshot replaced", "component", "storage", "driver", r.driver, "rows", len(txs))
	return nil
}
