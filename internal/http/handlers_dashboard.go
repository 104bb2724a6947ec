package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"momodash/internal/analytics"
	"momodash/internal/auth"
	"momodash/internal/dataset"
	applog "momodash/internal/log"
)

type indexPage struct {
	Username string
	Options  dataset.Options
	KPI      KPIView
	Sorts    []analytics.SortField
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "dashboard.html", indexPage{
		Username: auth.SessionFrom(r.Context()).Username,
		Options:  s.dashboard.Options(),
		KPI:      NewKPIView(s.dashboard.Summary(r.Context(), analytics.Criteria{})),
		Sorts: []analytics.SortField{
			analytics.SortByDate, analytics.SortByAmount, analytics.SortByProvince,
			analytics.SortByDistrict, analytics.SortByType, analytics.SortByStatus,
			analytics.SortByChannel, analytics.SortByAgent, analytics.SortByID,
		},
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(s.dashboard.Options()).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	c, ok := criteria(w, r)
	if !ok {
		return
	}
	d := s.dashboard.Dashboard(r.Context(), c)
	applog.LogQuery(r.Context(), applog.OpQuery, c.Key(), d.Summary.Count)
	NewJSONResponse().Data(NewDashboardView(d)).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	c, ok := criteria(w, r)
	if !ok {
		return
	}
	NewJSONResponse().Data(NewKPIView(s.dashboard.Summary(r.Context(), c))).Write(w)
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	dim, err := analytics.ParseDimension(mux.Vars(r)["dimension"])
	if err != nil {
		ErrorJSON(http.StatusBadRequest, err.Error()).Write(w)
		return
	}
	c, ok := criteria(w, r)
	if !ok {
		return
	}
	rows := s.dashboard.Groups(r.Context(), c, dim)
	NewJSONResponse().Data(map[string]any{"dimension": dim, "rows": rows}).Write(w)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	c, ok := criteria(w, r)
	if !ok {
		return
	}
	tq := ParseTableQuery(r.URL.Query())
	page := s.dashboard.Transactions(r.Context(), c, tq)
	NewJSONResponse().Data(NewPageView(page, tq)).Write(w)
}
