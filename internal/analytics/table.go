package analytics

import (
	"sort"
	"strings"

	"momodash/internal/core"
)

// SortField names a column of the transaction table.
type SortField string

const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByProvince SortField = "province"
	SortByDistrict SortField = "district"
	SortByType     SortField = "transaction_type"
	SortByStatus   SortField = "status"
	SortByChannel  SortField = "channel"
	SortByAgent    SortField = "agent"
	SortByID       SortField = "transaction_id"
)

// ParseSortField falls back to date ordering for anything unknown.
func ParseSortField(s string) SortField {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortByAmount, SortByProvince, SortByDistrict, SortByType,
		SortByStatus, SortByChannel, SortByAgent, SortByID:
		return f
	case "type":
		return SortByType
	}
	return SortByDate
}

// SortTransactions returns a stably sorted copy of txs.
func SortTransactions(txs []core.Transaction, field SortField, desc bool) []core.Transaction {
	out := make([]core.Transaction, len(txs))
	copy(out, txs)
	less := func(a, b core.Transaction) int {
		switch field {
		case SortByAmount:
			return a.Amount.Cmp(b.Amount)
		case SortByProvince:
			return strings.Compare(a.Province, b.Province)
		case SortByDistrict:
			return strings.Compare(a.District, b.District)
		case SortByType:
			return strings.Compare(a.Type, b.Type)
		case SortByStatus:
			return strings.Compare(string(a.Status), string(b.Status))
		case SortByChannel:
			return strings.Compare(a.Channel, b.Channel)
		case SortByAgent:
			return strings.Compare(a.AgentID, b.AgentID)
		case SortByID:
			return strings.Compare(a.ID, b.ID)
		}
		return a.Timestamp().Compare(b.Timestamp())
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := less(out[i], out[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Page is one slice of the transaction table.
type Page struct {
	Items      []core.Transaction
	Page       int // 1-based
	PageSize   int
	TotalItems int
	TotalPages int
}

// Paginate cuts txs into pages of size and returns the requested one.
// Out-of-range page numbers are clamped.
func Paginate(txs []core.Transaction, page, size int) Page {
	if size <= 0 {
		size = 10
	}
	total := len(txs)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := min(start+size, total)
	items := make([]core.Transaction, end-start)
	copy(items, txs[start:end])
	return Page{Items: items, Page: page, PageSize: size, TotalItems: total, TotalPages: pages}
}
