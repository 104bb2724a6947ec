package dataset

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"momodash/internal/core"
)

// Store is the immutable in-memory snapshot of every transaction. It is
// built once and then only read, so it is safe to share across requests
// without locking.
type Store struct {
	txs     []core.Transaction
	options Options
	total   decimal.Decimal
	report  LoadReport
}

// Options holds the values offered by the filter widgets.
type Options struct {
	Provinces []string      `json:"provinces"`
	Districts []string      `json:"districts"`
	Types     []string      `json:"transaction_types"`
	Statuses  []core.Status `json:"statuses"`
	Channels  []string      `json:"channels"`
	MinDate   string        `json:"min_date,omitempty"`
	MaxDate   string        `json:"max_date,omitempty"`
}

// Load reads src once, logs every skipped row and the dataset banner, and
// returns the snapshot.
func Load(ctx context.Context, src Source) (*Store, error) {
	txs, report, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range report.Problems {
		slog.WarnContext(ctx, "Skipping malformed row", "source", report.Source, "line", p.Line, "column", p.Column, "error", p.Err)
	}
	if report.Skipped > len(report.Problems) {
		slog.WarnContext(ctx, "Further malformed rows not logged", "source", report.Source, "count", report.Skipped-len(report.Problems))
	}

	s := NewStore(txs)
	s.report = report
	slog.InfoContext(ctx, "Dataset loaded",
		"source", report.Source,
		"rows", s.Len(),
		"skipped", report.Skipped,
		"min_date", s.options.MinDate,
		"max_date", s.options.MaxDate,
		"total_amount", core.FormatAmount(s.total))
	return s, nil
}

// NewStore takes ownership of txs.
func NewStore(txs []core.Transaction) *Store {
	s := &Store{txs: slices.Clip(txs), total: decimal.Zero}
	s.report.Rows = len(txs)

	sets := map[string]map[string]struct{}{
		ColProvince: {}, ColDistrict: {}, ColType: {}, ColChannel: {},
	}
	statuses := map[core.Status]struct{}{}
	var minDate, maxDate core.Date
	for _, tx := range s.txs {
		sets[ColProvince][tx.Province] = struct{}{}
		sets[ColDistrict][tx.District] = struct{}{}
		sets[ColType][tx.Type] = struct{}{}
		sets[ColChannel][tx.Channel] = struct{}{}
		statuses[tx.Status] = struct{}{}
		if minDate.IsZero() || tx.Date.Before(minDate) {
			minDate = tx.Date
		}
		if maxDate.IsZero() || tx.Date.After(maxDate) {
			maxDate = tx.Date
		}
		s.total = s.total.Add(tx.Amount)
	}

	s.options = Options{
		Provinces: sortedKeys(sets[ColProvince]),
		Districts: sortedKeys(sets[ColDistrict]),
		Types:     sortedKeys(sets[ColType]),
		Channels:  sortedKeys(sets[ColChannel]),
		Statuses:  sortedKeys(statuses),
		MinDate:   minDate.String(),
		MaxDate:   maxDate.String(),
	}
	return s
}

func sortedKeys[K ~string](m map[K]struct{}) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Transactions returns the shared snapshot. Callers must treat it as
// read-only; appending to it never affects the store.
func (s *Store) Transactions() []core.Transaction {
	return s.txs
}

func (s *Store) Len() int { return len(s.txs) }

// Options returns a copy of the filter option lists.
func (s *Store) Options() Options {
	o := s.options
	o.Provinces = slices.Clone(o.Provinces)
	o.Districts = slices.Clone(o.Districts)
	o.Types = slices.Clone(o.Types)
	o.Statuses = slices.Clone(o.Statuses)
	o.Channels = slices.Clone(o.Channels)
	return o
}

func (s *Store) Report() LoadReport { return s.report }

// Total is the sum of every amount in the snapshot.
func (s *Store) Total() decimal.Decimal { return s.total }
