package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in  string
		out Status
		ok  bool
	}{
		{"success", StatusSuccess, true},
		{"Success", StatusSuccess, true},
		{" FAILED ", StatusFailed, true},
		{"pending", StatusPending, true},
		{"reversed", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if tc.ok && (err != nil || got != tc.out) {
			t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.out, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-10-01")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d != NewDate(2025, 10, 1) {
		t.Fatalf("unexpected date %v", d)
	}
	if d.String() != "2025-10-01" {
		t.Fatalf("unexpected format %q", d.String())
	}
	if _, err := ParseDate("01/10/2025"); err == nil {
		t.Fatalf("expected error for non ISO date")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:     NewDate(2025, 10, 1),
		Province: "Lusaka",
		District: "Lusaka",
		Type:     "deposit",
		Status:   StatusSuccess,
		Channel:  "USSD",
		Amount:   decimal.NewFromInt(0),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []func(tx *Transaction){
		func(tx *Transaction) { tx.Date = Date{} },
		func(tx *Transaction) { tx.Province = " " },
		func(tx *Transaction) { tx.District = "" },
		func(tx *Transaction) { tx.Type = "" },
		func(tx *Transaction) { tx.Channel = "" },
		func(tx *Transaction) { tx.Status = "unknown" },
		func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-1) },
	}
	for i, mutate := range bads {
		tx := good
		mutate(&tx)
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionHourAndTimestamp(t *testing.T) {
	tx := Transaction{Date: NewDate(2025, 10, 1)}
	if tx.Hour() != -1 {
		t.Fatalf("expected -1 without time, got %d", tx.Hour())
	}
	tx.Time = 14*time.Hour + 5*time.Minute
	tx.HasTime = true
	if tx.Hour() != 14 {
		t.Fatalf("expected hour 14, got %d", tx.Hour())
	}
	want := time.Date(2025, 10, 1, 14, 5, 0, 0, time.UTC)
	if !tx.Timestamp().Equal(want) {
		t.Fatalf("timestamp %v, want %v", tx.Timestamp(), want)
	}
}
