package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"momodash/internal/analytics"
	"momodash/internal/cache"
	"momodash/internal/core"
	"momodash/internal/dataset"
)

// TopAgents is how many agents the leaderboard charts show.
const TopAgents = 10

// TransactionReader is the read side of the transaction store.
type TransactionReader interface {
	Transactions() []core.Transaction
	Options() dataset.Options
}

// snapshot is implemented by stores that know how their load went.
type snapshot interface {
	Len() int
	Total() decimal.Decimal
	Report() dataset.LoadReport
}

// Stats describes the loaded dataset and the view cache for health output.
type Stats struct {
	Source  string       `json:"source,omitempty"`
	Rows    int          `json:"rows"`
	Skipped int          `json:"skipped"`
	Total   string       `json:"total"`
	Cache   *cache.Stats `json:"cache,omitempty"`
}

// Dashboard is every figure the dashboard page renders for one set of
// criteria.
type Dashboard struct {
	Summary           core.KPISummary      `json:"summary"`
	ByProvince        []core.GroupRow      `json:"by_province"`
	ByDistrict        []core.GroupRow      `json:"by_district"`
	ByType            []core.GroupRow      `json:"by_transaction_type"`
	ByStatus          []core.GroupRow      `json:"by_status"`
	ByChannel         []core.GroupRow      `json:"by_channel"`
	ByDay             []core.GroupRow      `json:"by_day"`
	ByHour            []core.GroupRow      `json:"by_hour"`
	StatusByChannel   []core.CrossRow      `json:"status_by_channel"`
	TopAgentsByValue  []core.GroupRow      `json:"top_agents_by_value"`
	TopAgentsByVolume []core.GroupRow      `json:"top_agents_by_volume"`
	Timeline          []core.TimelinePoint `json:"timeline"`
	GeneratedAt       time.Time            `json:"generated_at"`
}

// TableQuery selects one page of the transaction table.
type TableQuery struct {
	Page     int
	PageSize int
	Sort     analytics.SortField
	Desc     bool
}

// DashboardService computes filtered views over the immutable store. Every
// call works on its own filtered copy, so concurrent requests never share
// intermediate state.
type DashboardService struct {
	store TransactionReader
	cache cache.Cache[Dashboard]
	now   func() time.Time
}

// NewDashboardService wires the store and an optional view cache. Caching
// is safe because the store never changes after load.
func NewDashboardService(store TransactionReader, c cache.Cache[Dashboard]) *DashboardService {
	return &DashboardService{store: store, cache: c, now: time.Now}
}

// Filtered applies c to the whole store.
func (s *DashboardService) Filtered(_ context.Context, c analytics.Criteria) []core.Transaction {
	return analytics.Apply(s.store.Transactions(), c)
}

// Dashboard returns the full view for c, from cache when possible.
func (s *DashboardService) Dashboard(ctx context.Context, c analytics.Criteria) Dashboard {
	key := c.Key()
	if s.cache != nil {
		if d, ok := s.cache.Get(ctx, key); ok {
			return d
		}
	}
	d := s.build(s.Filtered(ctx, c))
	if s.cache != nil {
		s.cache.Set(ctx, key, d)
	}
	return d
}

func (s *DashboardService) build(txs []core.Transaction) Dashboard {
	agents := analytics.GroupBy(txs, analytics.DimAgent)
	return Dashboard{
		Summary:           analytics.Summarize(txs),
		ByProvince:        analytics.GroupBy(txs, analytics.DimProvince),
		ByDistrict:        analytics.GroupBy(txs, analytics.DimDistrict),
		ByType:            analytics.GroupBy(txs, analytics.DimType),
		ByStatus:          analytics.GroupBy(txs, analytics.DimStatus),
		ByChannel:         analytics.GroupBy(txs, analytics.DimChannel),
		ByDay:             analytics.GroupBy(txs, analytics.DimDay),
		ByHour:            analytics.GroupBy(txs, analytics.DimHour),
		StatusByChannel:   analytics.CrossTab(txs, analytics.DimChannel, analytics.DimStatus),
		TopAgentsByValue:  analytics.TopN(agents, TopAgents, analytics.ByValue),
		TopAgentsByVolume: analytics.TopN(agents, TopAgents, analytics.ByVolume),
		Timeline:          analytics.Timeline(txs),
		GeneratedAt:       s.now().UTC(),
	}
}

// Summary returns only the KPI snapshot.
func (s *DashboardService) Summary(ctx context.Context, c analytics.Criteria) core.KPISummary {
	return s.Dashboard(ctx, c).Summary
}

// Groups returns one grouping of the filtered view.
func (s *DashboardService) Groups(ctx context.Context, c analytics.Criteria, d analytics.Dimension) []core.GroupRow {
	return analytics.GroupBy(s.Filtered(ctx, c), d)
}

// Transactions returns one sorted page of the filtered table.
func (s *DashboardService) Transactions(ctx context.Context, c analytics.Criteria, q TableQuery) analytics.Page {
	sorted := analytics.SortTransactions(s.Filtered(ctx, c), q.Sort, q.Desc)
	return analytics.Paginate(sorted, q.Page, q.PageSize)
}

func (s *DashboardService) Options() dataset.Options {
	return s.store.Options()
}

// Stats reports dataset size and cache counters. Fields the store or cache
// cannot provide are left empty.
func (s *DashboardService) Stats() Stats {
	st := Stats{Rows: len(s.store.Transactions()), Total: core.FormatAmount(decimal.Zero)}
	if snap, ok := s.store.(snapshot); ok {
		r := snap.Report()
		st.Source, st.Rows, st.Skipped = r.Source, snap.Len(), r.Skipped
		st.Total = core.FormatAmount(snap.Total())
	}
	if rep, ok := s.cache.(cache.StatsReporter); ok {
		cs := rep.Stats()
		st.Cache = &cs
	}
	return st
}
