package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"momodash/internal/analytics"
	"momodash/internal/core"
	"momodash/internal/services"
)

func TestJSONResponseBuilder(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusAccepted).
		Header("X-Custom", "value").
		Data(map[string]int{"n": 1}).
		Write(w)

	if w.Code != http.StatusAccepted {
		t.Errorf("status = %d", w.Code)
	}
	if w.Header().Get("X-Custom") != "value" || !strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		t.Errorf("headers = %v", w.Header())
	}
	if strings.TrimSpace(w.Body.String()) != `{"n":1}` {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestErrorJSON(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorJSON(http.StatusBadRequest, `bad "thing"`).Write(w)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), `"error":"bad \"thing\""`) {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}

func TestKPIView(t *testing.T) {
	v := NewKPIView(core.KPISummary{
		Count:        3,
		TotalValue:   decimal.RequireFromString("1234.5"),
		AverageValue: decimal.RequireFromString("411.5"),
		SuccessRate:  2.0 / 3.0,
	})
	if v.CountLabel != "3" || v.TotalLabel != "ZMW 1,234.50" || v.AverageLabel != "ZMW 411.50" || v.SuccessLabel != "66.67%" {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestPageView(t *testing.T) {
	d, _ := core.ParseDate("2025-10-01")
	tx := core.Transaction{ID: "T1", Date: d, HasTime: true, Time: 9*time.Hour + 5*time.Minute, Status: core.StatusPending, Amount: decimal.NewFromInt(7)}
	p := NewPageView(analytics.Page{Items: []core.Transaction{tx}, Page: 1, PageSize: 25, TotalItems: 1, TotalPages: 1},
		services.TableQuery{Sort: analytics.SortByAmount, Desc: true})

	if p.Order != "desc" || p.Sort != "amount" || len(p.Items) != 1 {
		t.Fatalf("unexpected page %+v", p)
	}
	row := p.Items[0]
	if row.Time != "09:05:00" || row.Status != "pending" || row.AmountLabel != "ZMW 7.00" || row.Date != "2025-10-01" {
		t.Fatalf("unexpected row %+v", row)
	}
}
