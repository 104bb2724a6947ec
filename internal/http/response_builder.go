// This file builds JSON responses and the display-ready views the page and
// the API share.

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"momodash/internal/analytics"
	"momodash/internal/core"
	"momodash/internal/services"
)

// JSONResponseBuilder is a fluent builder for JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	data       any
}

func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{statusCode: http.StatusOK, headers: make(map[string]string)}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *JSONResponseBuilder) Data(v any) *JSONResponseBuilder {
	b.data = v
	return b
}

func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if b.data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(b.data); err != nil {
		slog.Warn("Failed to encode JSON response", "component", "http", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// ErrorJSON is the standard {"error": "..."} response.
func ErrorJSON(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Data(errorBody{Error: message})
}

// KPIView pairs the raw KPI numbers with their display strings.
type KPIView struct {
	core.KPISummary
	CountLabel   string `json:"count_label"`
	TotalLabel   string `json:"total_label"`
	AverageLabel string `json:"average_label"`
	SuccessLabel string `json:"success_label"`
}

func NewKPIView(s core.KPISummary) KPIView {
	return KPIView{
		KPISummary:   s,
		CountLabel:   s.CountLabel(),
		TotalLabel:   core.FormatAmount(s.TotalValue),
		AverageLabel: core.FormatAmount(s.AverageValue),
		SuccessLabel: s.SuccessPercent(),
	}
}

// DashboardView is the /api/dashboard payload.
type DashboardView struct {
	services.Dashboard
	KPI KPIView `json:"kpi"`
}

func NewDashboardView(d services.Dashboard) DashboardView {
	return DashboardView{Dashboard: d, KPI: NewKPIView(d.Summary)}
}

// TransactionRow is one table row, flattened to strings.
type TransactionRow struct {
	ID          string `json:"transaction_id"`
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	Province    string `json:"province"`
	District    string `json:"district"`
	Type        string `json:"transaction_type"`
	Status      string `json:"status"`
	Channel     string `json:"channel"`
	Amount      string `json:"amount"`
	AmountLabel string `json:"amount_label"`
	AgentID     string `json:"agent_id,omitempty"`
}

func NewTransactionRow(tx core.Transaction) TransactionRow {
	return TransactionRow{
		ID:          tx.ID,
		Date:        tx.Date.String(),
		Time:        tx.Clock(),
		Province:    tx.Province,
		District:    tx.District,
		Type:        tx.Type,
		Status:      string(tx.Status),
		Channel:     tx.Channel,
		Amount:      tx.Amount.String(),
		AmountLabel: core.FormatAmount(tx.Amount),
		AgentID:     tx.AgentID,
	}
}

// PageView is the /api/transactions payload.
type PageView struct {
	Items      []TransactionRow `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalItems int              `json:"total_items"`
	TotalPages int              `json:"total_pages"`
	Sort       string           `json:"sort"`
	Order      string           `json:"order"`
}

func NewPageView(p analytics.Page, q services.TableQuery) PageView {
	rows := make([]TransactionRow, len(p.Items))
	for i, tx := range p.Items {
		rows[i] = NewTransactionRow(tx)
	}
	order := "asc"
	if q.Desc {
		order = "desc"
	}
	return PageView{
		Items:      rows,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
		Sort:       string(q.Sort),
		Order:      order,
	}
}
