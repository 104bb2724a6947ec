package dataset

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"momodash/internal/core"
)

type stubSource struct {
	txs    []core.Transaction
	report LoadReport
	err    error
}

func (s stubSource) Load(context.Context) ([]core.Transaction, LoadReport, error) {
	return s.txs, s.report, s.err
}

func loadSample(t *testing.T) *Store {
	t.Helper()
	txs, report, err := ReadCSV(context.Background(), "mem", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	s, err := Load(context.Background(), stubSource{txs: txs, report: report})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestStoreOptions(t *testing.T) {
	s := loadSample(t)
	o := s.Options()
	if !slices.Equal(o.Provinces, []string{"Copperbelt", "Lusaka"}) {
		t.Fatalf("provinces = %v", o.Provinces)
	}
	if !slices.Equal(o.Districts, []string{"Kafue", "Kitwe", "Ndola"}) {
		t.Fatalf("districts = %v", o.Districts)
	}
	if !slices.Equal(o.Statuses, []core.Status{core.StatusFailed, core.StatusSuccess}) {
		t.Fatalf("statuses = %v", o.Statuses)
	}
	if o.MinDate != "2025-10-01" || o.MaxDate != "2025-10-05" {
		t.Fatalf("date bounds = %s..%s", o.MinDate, o.MaxDate)
	}
	if s.Total().String() != "450.5" {
		t.Fatalf("total = %s", s.Total())
	}
	if s.Report().Skipped != 2 {
		t.Fatalf("report = %+v", s.Report())
	}

	o.Provinces[0] = "mutated"
	if s.Options().Provinces[0] != "Copperbelt" {
		t.Fatalf("Options() leaked internal slice")
	}
}

func TestStoreTransactionsAppendDoesNotAlias(t *testing.T) {
	s := loadSample(t)
	all := s.Transactions()
	_ = append(all, core.Transaction{ID: "extra"})
	if s.Len() != 3 || len(s.Transactions()) != 3 {
		t.Fatalf("store changed after append")
	}
}

func TestStoreEmpty(t *testing.T) {
	s := NewStore(nil)
	o := s.Options()
	if s.Len() != 0 || o.MinDate != "" || o.MaxDate != "" || o.Provinces == nil {
		t.Fatalf("unexpected empty store options %+v", o)
	}
}

func TestLoadPropagatesError(t *testing.T) {
	want := &LoadError{Source: "x", Err: ErrMissingHeader}
	_, err := Load(context.Background(), stubSource{err: want})
	if !errors.Is(err, ErrMissingHeader) {
		t.Fatalf("got %v", err)
	}
}
