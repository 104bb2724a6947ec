package http

import (
	"context"
	"net/http"
	"time"

	"momodash/internal/services"
)

// healthMetrics is the counter block of /healthz.
type healthMetrics struct {
	Requests           int64          `json:"requests"`
	LastLatencyMs      int64          `json:"last_latency_ms"`
	SuspiciousRequests int64          `json:"suspicious_requests"`
	RateLimited        int64          `json:"rate_limited"`
	RateLimitClients   int            `json:"rate_limit_clients"`
	Dataset            services.Stats `json:"dataset"`
}

// handleHealth is a liveness probe that also reports the process counters.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	tm := s.tracer.GetMetrics()
	NewJSONResponse().Data(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"metrics": healthMetrics{
			Requests:           tm.TotalRequests,
			LastLatencyMs:      tm.LastLatencyMs,
			SuspiciousRequests: s.detector.SuspiciousRequests(),
			RateLimited:        s.limiter.Hits(),
			RateLimitClients:   s.limiter.ActiveClients(),
			Dataset:            s.dashboard.Stats(),
		},
	}).Write(w)
}

// handleReady probes every configured dependency.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{"templates": "ok"}
	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	for _, c := range s.ready {
		if err := c.Check(ctx); err != nil {
			checks[c.Name] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
			continue
		}
		checks[c.Name] = "ok"
	}
	resp := NewJSONResponse().Status(code).Data(map[string]any{"status": status, "checks": checks})
	if code != http.StatusOK {
		resp.Header("Retry-After", "5")
	}
	resp.Write(w)
}
