package analytics

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"momodash/internal/core"
)

// Dimension names a transaction attribute transactions can be grouped by.
type Dimension string

const (
	DimProvince Dimension = "province"
	DimDistrict Dimension = "district"
	DimStatus   Dimension = "status"
	DimType     Dimension = "transaction_type"
	DimChannel  Dimension = "channel"
	DimAgent    Dimension = "agent"
	DimDay      Dimension = "day"
	DimHour     Dimension = "hour"
)

// Measure selects the quantity TopN ranks by.
type Measure int

const (
	ByVolume Measure = iota // transaction count
	ByValue                 // sum of amount
)

var ErrUnknownDimension = errors.New("unknown dimension")

// Dimensions lists every supported grouping dimension.
func Dimensions() []Dimension {
	return []Dimension{DimProvince, DimDistrict, DimStatus, DimType, DimChannel, DimAgent, DimDay, DimHour}
}

// ParseDimension accepts the canonical names plus "type" as a short alias.
func ParseDimension(s string) (Dimension, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "type" {
		return DimType, nil
	}
	for _, d := range Dimensions() {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

// chronological dimensions are ordered by key instead of by count.
func (d Dimension) chronological() bool {
	return d == DimDay || d == DimHour
}

// keyOf extracts the grouping key. Transactions lacking an optional
// attribute (no time of day, no agent) are left out of hour and agent
// groupings.
func keyOf(tx core.Transaction, d Dimension) (string, bool) {
	switch d {
	case DimProvince:
		return tx.Province, true
	case DimDistrict:
		return tx.District, true
	case DimStatus:
		return string(tx.Status), true
	case DimType:
		return tx.Type, true
	case DimChannel:
		return tx.Channel, true
	case DimAgent:
		return tx.AgentID, tx.AgentID != ""
	case DimDay:
		return tx.Date.String(), true
	case DimHour:
		h := tx.Hour()
		if h < 0 {
			return "", false
		}
		return fmt.Sprintf("%02d", h), true
	}
	return "", false
}

// Summarize computes the KPI snapshot. An empty input yields all zeros.
func Summarize(txs []core.Transaction) core.KPISummary {
	if len(txs) == 0 {
		return core.KPISummary{TotalValue: decimal.Zero, AverageValue: decimal.Zero}
	}
	total := decimal.Zero
	succeeded := 0
	for _, tx := range txs {
		total = total.Add(tx.Amount)
		if tx.Succeeded() {
			succeeded++
		}
	}
	count := len(txs)
	return core.KPISummary{
		Count:        count,
		TotalValue:   total,
		AverageValue: total.Div(decimal.NewFromInt(int64(count))),
		SuccessRate:  float64(succeeded) / float64(count),
	}
}

// GroupBy partitions txs by dimension d and sums each partition.
//
// Categorical dimensions come back by descending count with ties broken by
// ascending key; day and hour come back in chronological order.
func GroupBy(txs []core.Transaction, d Dimension) []core.GroupRow {
	index := make(map[string]int)
	rows := make([]core.GroupRow, 0)
	for _, tx := range txs {
		key, ok := keyOf(tx, d)
		if !ok {
			continue
		}
		i, seen := index[key]
		if !seen {
			i = len(rows)
			index[key] = i
			rows = append(rows, core.GroupRow{Key: key, Total: decimal.Zero})
		}
		rows[i].Count++
		rows[i].Total = rows[i].Total.Add(tx.Amount)
	}

	if d.chronological() {
		sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
		return rows
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// TopN ranks grouped rows by the given measure and keeps the first n.
// Ties are broken by ascending key.
func TopN(rows []core.GroupRow, n int, by Measure) []core.GroupRow {
	out := make([]core.GroupRow, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool {
		switch by {
		case ByValue:
			if c := out[i].Total.Cmp(out[j].Total); c != 0 {
				return c > 0
			}
		default:
			if out[i].Count != out[j].Count {
				return out[i].Count > out[j].Count
			}
		}
		return out[i].Key < out[j].Key
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CrossTab groups by rowDim and, inside every row, by colDim. Rows follow
// GroupBy ordering for rowDim and columns follow GroupBy ordering for colDim.
func CrossTab(txs []core.Transaction, rowDim, colDim Dimension) []core.CrossRow {
	buckets := make(map[string][]core.Transaction)
	for _, tx := range txs {
		if key, ok := keyOf(tx, rowDim); ok {
			buckets[key] = append(buckets[key], tx)
		}
	}
	rows := GroupBy(txs, rowDim)
	out := make([]core.CrossRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.CrossRow{Key: r.Key, Columns: GroupBy(buckets[r.Key], colDim)})
	}
	return out
}

// Timeline places every transaction on the time axis, oldest first.
// Transactions sharing a timestamp keep their input order.
func Timeline(txs []core.Transaction) []core.TimelinePoint {
	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp().Before(sorted[j].Timestamp())
	})
	points := make([]core.TimelinePoint, len(sorted))
	for i, tx := range sorted {
		points[i] = core.TimelinePoint{At: tx.Timestamp().Format(time.RFC3339), Amount: tx.Amount}
	}
	return points
}
