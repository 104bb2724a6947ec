package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"momodash/internal/core"
)

// CSVSource reads transactions from a comma-separated file with a header row.
type CSVSource struct {
	Path string
}

var _ Source = (*CSVSource)(nil)

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Load(ctx context.Context) ([]core.Transaction, LoadReport, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, LoadReport{Source: s.Path}, &LoadError{Source: s.Path, Err: err}
	}
	defer f.Close()
	return ReadCSV(ctx, s.Path, f)
}

// ReadCSV parses CSV content from r. Records with a wrong field count or bad
// quoting are skipped like any other malformed row.
func ReadCSV(ctx context.Context, name string, r io.Reader) ([]core.Transaction, LoadReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	report := LoadReport{Source: name}
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, report, &LoadError{Source: name, Err: ErrMissingHeader}
	}
	if err != nil {
		return nil, report, &LoadError{Source: name, Err: fmt.Errorf("read header: %w", err)}
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}
	parser, err := NewRowParser(header)
	if err != nil {
		return nil, report, &LoadError{Source: name, Err: err}
	}

	var txs []core.Transaction
	for {
		if err := ctx.Err(); err != nil {
			return nil, report, &LoadError{Source: name, Err: err}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				report.skip(&RowError{Line: perr.Line, Err: perr.Err})
				continue
			}
			return nil, report, &LoadError{Source: name, Err: err}
		}
		if blank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		tx, err := parser.Parse(line, rec)
		if err != nil {
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				rowErr = &RowError{Line: line, Err: err}
			}
			report.skip(rowErr)
			continue
		}
		txs = append(txs, tx)
	}
	report.Rows = len(txs)
	return txs, report, nil
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
