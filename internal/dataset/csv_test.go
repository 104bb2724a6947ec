package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = "\ufeffTransactionID,Date,Time,Province,District,TransactionType,Status,Channel,Amount,AgentID\n" +
	"TX1,2025-10-01,08:15:00,Lusaka,Kafue,Deposit,success,USSD,100,AG-1\n" +
	"TX2,2025-10-02,09:00:00,Copperbelt,Ndola,Withdrawal,failed,App,50.5,AG-2\n" +
	"TX3,2025-10-02,10:00:00,Lusaka,Chongwe,Transfer,success,Agent,oops,AG-1\n" +
	"TX4,2025-10-03,\"bad\"quote,Southern,Livingstone,Payment,pending,USSD,10,AG-3\n" +
	"\n" +
	"TX5,2025-10-05,23:59:59,Copperbelt,Kitwe,Deposit,Success,App,300,\n"

func TestReadCSV(t *testing.T) {
	txs, report, err := ReadCSV(context.Background(), "mem", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	got := make([]string, len(txs))
	for i, tx := range txs {
		got[i] = tx.ID
	}
	if strings.Join(got, ",") != "TX1,TX2,TX5" {
		t.Fatalf("loaded %v", got)
	}
	if report.Rows != 3 || report.Skipped != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Problems[0].Line != 4 || report.Problems[0].Column != ColAmount {
		t.Fatalf("first problem = %+v", report.Problems[0])
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	txs, report, err := ReadCSV(context.Background(), "mem", strings.NewReader("Date,Province,District,TransactionType,Status,Channel,Amount\n"))
	if err != nil {
		t.Fatalf("header-only file should load, got %v", err)
	}
	if len(txs) != 0 || report.Rows != 0 {
		t.Fatalf("expected no rows, got %d", len(txs))
	}
}

func TestReadCSVLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty file", "", ErrMissingHeader},
		{"missing column", "Date,Province,Amount\n2025-10-01,Lusaka,5\n", ErrMissingColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadCSV(context.Background(), "mem", strings.NewReader(tt.input))
			var loadErr *LoadError
			if !errors.As(err, &loadErr) || !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want LoadError wrapping %v", err, tt.want)
			}
		})
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"))
	_, _, err := src.Load(context.Background())
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected LoadError wrapping ErrNotExist, got %v", err)
	}
}

func TestCSVSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	txs, _, err := NewCSVSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}
}
