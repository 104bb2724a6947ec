// Package google reads the transaction dataset from a Google Sheets range.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"momodash/internal/core"
	"momodash/internal/dataset"
)

// Config identifies the sheet range and the service account used to read it.
type Config struct {
	SpreadsheetID      string
	Range              string // e.g. "Transactions!A:J"
	ServiceAccountJSON string
	ServiceAccountFile string
}

type valuesGetter interface {
	get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
}

type apiGetter struct {
	svc *gsheet.Service
}

func (g apiGetter) get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(spreadsheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// Client is a dataset.Source backed by the Sheets API.
type Client struct {
	values        valuesGetter
	spreadsheetID string
	rng           string
}

var _ dataset.Source = (*Client)(nil)

// New creates a read-only Sheets client using service account credentials.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	rng := strings.TrimSpace(cfg.Range)
	if rng == "" {
		rng = "Transactions"
	}
	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{values: apiGetter{svc: svc}, spreadsheetID: cfg.SpreadsheetID, rng: rng}, nil
}

// newSheetsService prefers inline JSON, then a file, then
// GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(cfg.ServiceAccountJSON)
	serviceAccountFile := strings.TrimSpace(cfg.ServiceAccountFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service",
		"component", "sheets",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsReadonlyScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Load implements dataset.Source. The first row of the range is the header.
func (c *Client) Load(ctx context.Context) ([]core.Transaction, dataset.LoadReport, error) {
	source := "sheets:" + c.rng
	values, err := c.values.get(ctx, c.spreadsheetID, c.rng)
	if err != nil {
		return nil, dataset.LoadReport{Source: source}, &dataset.LoadError{Source: source, Err: fmt.Errorf("read %s: %w", c.rng, err)}
	}
	// Sheets rows are 1-based and the range starts at the header row.
	return dataset.ParseRecords(source, toRecords(values), 1)
}
