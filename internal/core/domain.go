package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
)

type (
	Status string

	Date struct {
		time.Time
	}

	Transaction struct {
		ID       string // optional TransactionID column
		Date     Date
		Time     time.Duration // time of day; zero when the source has no time column
		HasTime  bool
		Province string
		District string
		Type     string // transaction_type
		Status   Status
		Channel  string
		Amount   decimal.Decimal
		AgentID  string // optional AgentID column
	}
)

var (
	ErrZeroDate       = errors.New("date cannot be zero")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrUnknownStatus  = errors.New("unknown status")
	ErrEmptyProvince  = errors.New("empty province")
	ErrEmptyDistrict  = errors.New("empty district")
	ErrEmptyType      = errors.New("empty transaction type")
	ErrEmptyChannel   = errors.New("empty channel")
)

// Statuses lists the closed set of transaction statuses.
func Statuses() []Status {
	return []Status{StatusSuccess, StatusFailed, StatusPending}
}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusSuccess:
		return StatusSuccess, nil
	case StatusFailed:
		return StatusFailed, nil
	case StatusPending:
		return StatusPending, nil
	}
	return "", ErrUnknownStatus
}

func (s Status) String() string {
	return string(s)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool {
	return d.Time.After(o.Time)
}

// Timestamp combines the date and time of day.
func (t Transaction) Timestamp() time.Time {
	return t.Date.Add(t.Time)
}

// Clock formats the time of day as HH:MM:SS, or "" when absent.
func (t Transaction) Clock() string {
	if !t.HasTime {
		return ""
	}
	return time.Time{}.Add(t.Time).Format("15:04:05")
}

// Hour returns the hour of day, or -1 when the transaction has no time.
func (t Transaction) Hour() int {
	if !t.HasTime {
		return -1
	}
	return int(t.Time / time.Hour)
}

// Succeeded reports whether the transaction counts towards the success rate.
func (t Transaction) Succeeded() bool {
	return t.Status == StatusSuccess
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Province) == "" {
		return ErrEmptyProvince
	}
	if strings.TrimSpace(t.District) == "" {
		return ErrEmptyDistrict
	}
	if strings.TrimSpace(t.Type) == "" {
		return ErrEmptyType
	}
	if strings.TrimSpace(t.Channel) == "" {
		return ErrEmptyChannel
	}
	if _, err := ParseStatus(string(t.Status)); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}
