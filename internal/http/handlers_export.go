package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"momodash/internal/analytics"
	"momodash/internal/core"
	"momodash/internal/dataset"
	applog "momodash/internal/log"
)

const (
	sheetTransactions = "Transactions"
	sheetSummary      = "Summary"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// handleExport streams the filtered table as an XLSX workbook with a
// transactions sheet and a KPI summary sheet.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	c, ok := criteria(w, r)
	if !ok {
		return
	}
	tq := ParseTableQuery(r.URL.Query())
	txs := analytics.SortTransactions(s.dashboard.Filtered(r.Context(), c), tq.Sort, tq.Desc)

	f, err := buildWorkbook(txs, analytics.Summarize(txs))
	if err != nil {
		applog.LogError(r.Context(), "Failed to build export workbook", err, applog.ComponentHTTP, applog.OpExport)
		ErrorJSON(http.StatusInternalServerError, "export failed").Write(w)
		return
	}
	defer f.Close()

	name := fmt.Sprintf("transactions-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := f.Write(w); err != nil {
		applog.LogError(r.Context(), "Failed to write export workbook", err, applog.ComponentHTTP, applog.OpExport)
		return
	}
	applog.LogQuery(r.Context(), applog.OpExport, c.Key(), len(txs))
}

func buildWorkbook(txs []core.Transaction, kpi core.KPISummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetTransactions); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]any, len(dataset.Columns))
	for i, col := range dataset.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetTransactions, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	for i, tx := range txs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []any{
			tx.ID, tx.Date.String(), tx.Clock(), tx.Province, tx.District,
			tx.Type, string(tx.Status), tx.Channel, tx.Amount.InexactFloat64(), tx.AgentID,
		}
		if err := f.SetSheetRow(sheetTransactions, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.SetPanes(sheetTransactions, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	rows := [][]any{
		{"metric", "value"},
		{"transactions", kpi.Count},
		{"total_value", kpi.TotalValue.InexactFloat64()},
		{"average_value", kpi.AverageValue.Round(2).InexactFloat64()},
		{"success_rate", kpi.SuccessPercent()},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}
