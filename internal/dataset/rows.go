package dataset

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"momodash/internal/core"
)

// Canonical column names. Headers are matched after lowercasing and dropping
// everything but letters and digits, so "TransactionType", "transaction_type"
// and "Transaction Type" all resolve to ColType.
const (
	ColID       = "transaction_id"
	ColDate     = "date"
	ColTime     = "time"
	ColProvince = "province"
	ColDistrict = "district"
	ColType     = "transaction_type"
	ColStatus   = "status"
	ColChannel  = "channel"
	ColAmount   = "amount"
	ColAgent    = "agent_id"
)

// Columns is the canonical column order used when writing snapshots.
var Columns = []string{ColID, ColDate, ColTime, ColProvince, ColDistrict, ColType, ColStatus, ColChannel, ColAmount, ColAgent}

var requiredColumns = []string{ColDate, ColProvince, ColDistrict, ColType, ColStatus, ColChannel, ColAmount}

var aliases = map[string]string{
	"transactionid":   ColID,
	"id":              ColID,
	"date":            ColDate,
	"time":            ColTime,
	"province":        ColProvince,
	"district":        ColDistrict,
	"transactiontype": ColType,
	"type":            ColType,
	"status":          ColStatus,
	"channel":         ColChannel,
	"amount":          ColAmount,
	"agentid":         ColAgent,
	"agent":           ColAgent,
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RowParser converts raw string records into validated transactions. Every
// source funnels its rows through one, so CSV, SQL and Sheets data are
// checked the same way.
type RowParser struct {
	index map[string]int
}

// NewRowParser resolves the header row. Unknown columns are ignored; a
// missing required column fails the whole load.
func NewRowParser(header []string) (*RowParser, error) {
	if len(header) == 0 {
		return nil, ErrMissingHeader
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		col, ok := aliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ","))
	}
	return &RowParser{index: index}, nil
}

// Has reports whether the optional column was present in the header.
func (p *RowParser) Has(col string) bool {
	_, ok := p.index[col]
	return ok
}

func (p *RowParser) get(record []string, col string) string {
	i, ok := p.index[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// Parse converts one record. line is only used for error reporting.
func (p *RowParser) Parse(line int, record []string) (core.Transaction, error) {
	fail := func(col, val string, err error) (core.Transaction, error) {
		return core.Transaction{}, &RowError{Line: line, Column: col, Value: val, Err: err}
	}

	raw := p.get(record, ColDate)
	date, err := core.ParseDate(raw)
	if err != nil {
		return fail(ColDate, raw, err)
	}
	raw = p.get(record, ColStatus)
	status, err := core.ParseStatus(raw)
	if err != nil {
		return fail(ColStatus, raw, err)
	}
	raw = p.get(record, ColAmount)
	amount, err := core.ParseAmount(raw)
	if err != nil {
		return fail(ColAmount, raw, err)
	}

	tx := core.Transaction{
		ID:       p.get(record, ColID),
		Date:     date,
		Province: p.get(record, ColProvince),
		District: p.get(record, ColDistrict),
		Type:     p.get(record, ColType),
		Status:   status,
		Channel:  p.get(record, ColChannel),
		Amount:   amount,
		AgentID:  p.get(record, ColAgent),
	}
	if raw = p.get(record, ColTime); raw != "" {
		d, err := parseClock(raw)
		if err != nil {
			return fail(ColTime, raw, err)
		}
		tx.Time, tx.HasTime = d, true
	}
	if err := tx.Validate(); err != nil {
		return fail("", "", err)
	}
	return tx, nil
}

// parseClock reads HH:MM:SS or HH:MM into an offset from midnight.
func parseClock(s string) (time.Duration, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, ErrBadTime
}

// ParseRecords converts a header-first matrix of records. Blank records are
// ignored, malformed ones are skipped and counted. firstLine is the line
// number of records[0] in the underlying medium.
func ParseRecords(source string, records [][]string, firstLine int) ([]core.Transaction, LoadReport, error) {
	report := LoadReport{Source: source}
	if len(records) == 0 {
		return nil, report, &LoadError{Source: source, Err: ErrMissingHeader}
	}
	parser, err := NewRowParser(records[0])
	if err != nil {
		return nil, report, &LoadError{Source: source, Err: err}
	}
	txs := make([]core.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		tx, err := parser.Parse(firstLine+i+1, rec)
		if err != nil {
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				rowErr = &RowError{Line: firstLine + i + 1, Err: err}
			}
			report.skip(rowErr)
			continue
		}
		txs = append(txs, tx)
	}
	report.Rows = len(txs)
	return txs, report, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
