package google

import (
	"context"
	"errors"
	"testing"

	"momodash/internal/dataset"
)

type fakeValues struct {
	values [][]interface{}
	err    error
	gotRng string
}

func (f *fakeValues) get(_ context.Context, _ string, rng string) ([][]interface{}, error) {
	f.gotRng = rng
	return f.values, f.err
}

func TestClientLoad(t *testing.T) {
	fake := &fakeValues{values: [][]interface{}{
		{"TransactionID", "Date", "Time", "Province", "District", "TransactionType", "Status", "Channel", "Amount", "AgentID"},
		{"TX1", "2025-10-01", "08:00:00", "Lusaka", "Kafue", "Deposit", "success", "USSD", 120.5, "AG-1"},
		{"TX2", "2025-10-02", "", "Copperbelt", "Ndola", "Withdrawal", "FAILED", "App", "75"},
		{"TX3", "2025-10-02", "", "Copperbelt", "Ndola", "Withdrawal", "failed", "App", "n/a"},
		{},
	}}
	c := &Client{values: fake, spreadsheetID: "sheet", rng: "Data!A:J"}

	txs, report, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if fake.gotRng != "Data!A:J" {
		t.Fatalf("read range %q", fake.gotRng)
	}
	if len(txs) != 2 || report.Skipped != 1 {
		t.Fatalf("got %d txs, report %+v", len(txs), report)
	}
	if txs[0].Amount.String() != "120.5" || txs[0].Hour() != 8 {
		t.Fatalf("first row = %+v", txs[0])
	}
	// Short rows are padded by the parser; AgentID is simply empty.
	if txs[1].AgentID != "" || txs[1].HasTime {
		t.Fatalf("second row = %+v", txs[1])
	}
	if report.Problems[0].Line != 4 {
		t.Fatalf("problem line = %d, want 4", report.Problems[0].Line)
	}
}

func TestClientLoadErrors(t *testing.T) {
	c := &Client{values: &fakeValues{err: errors.New("quota exceeded")}, rng: "Data"}
	_, _, err := c.Load(context.Background())
	var loadErr *dataset.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}

	c = &Client{values: &fakeValues{values: [][]interface{}{{"Date", "Amount"}}}, rng: "Data"}
	_, _, err = c.Load(context.Background())
	if !errors.Is(err, dataset.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestToStrings(t *testing.T) {
	got := toStrings([]interface{}{" a ", 3, 1.25, nil, true})
	want := []string{"a", "3", "1.25", "", "true"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("toStrings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("expected error without spreadsheet id")
	}
}
