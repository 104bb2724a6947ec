package core

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// KPISummary is the headline snapshot for a filtered view.
type KPISummary struct {
	Count        int             `json:"count"`
	TotalValue   decimal.Decimal `json:"total_value"`
	AverageValue decimal.Decimal `json:"average_value"`
	SuccessRate  float64         `json:"success_rate"` // fraction in [0,1]
}

// GroupRow is one partition of a grouped aggregation.
type GroupRow struct {
	Key   string          `json:"key"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// CrossRow holds the column breakdown for one row key of a cross tabulation.
type CrossRow struct {
	Key     string     `json:"key"`
	Columns []GroupRow `json:"columns"`
}

// TimelinePoint is a single transaction placed on the time axis.
type TimelinePoint struct {
	At     string          `json:"at"` // RFC3339
	Amount decimal.Decimal `json:"amount"`
}

// SuccessPercent returns the success rate as a percentage rounded to two
// decimals, the way the KPI tile shows it.
func (s KPISummary) SuccessPercent() string {
	pct := decimal.NewFromFloat(s.SuccessRate * 100).Round(2)
	return pct.String() + "%"
}

// CountLabel formats the transaction count for display.
func (s KPISummary) CountLabel() string {
	return strconv.Itoa(s.Count)
}
