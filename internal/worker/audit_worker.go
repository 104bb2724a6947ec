package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"momodash/internal/amqp"
)

// AuditStats are the running counters kept by the audit worker.
type AuditStats struct {
	Attempts  int
	Successes int
	Failures  int
	// FailuresByUser counts failed attempts per submitted username.
	FailuresByUser map[string]int
	LastAttempt    time.Time
}

// AuditWorker turns login attempt events into structured audit log lines.
// It only observes; it never locks accounts or persists anything.
type AuditWorker struct {
	logger *slog.Logger

	mu    sync.Mutex
	stats AuditStats
}

func NewAuditWorker(logger *slog.Logger) *AuditWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditWorker{
		logger: logger.With("component", "worker"),
		stats:  AuditStats{FailuresByUser: map[string]int{}},
	}
}

// HandleLoginAttempt is an amqp consumer handler.
func (w *AuditWorker) HandleLoginAttempt(ctx context.Context, msg *amqp.LoginAttemptMessage) error {
	w.mu.Lock()
	w.stats.Attempts++
	if msg.Success {
		w.stats.Successes++
	} else {
		w.stats.Failures++
		w.stats.FailuresByUser[msg.Username]++
	}
	if msg.Timestamp.After(w.stats.LastAttempt) {
		w.stats.LastAttempt = msg.Timestamp
	}
	userFailures := w.stats.FailuresByUser[msg.Username]
	attempts, failures := w.stats.Attempts, w.stats.Failures
	w.mu.Unlock()

	level := slog.LevelInfo
	if !msg.Success {
		level = slog.LevelWarn
	}
	w.logger.Log(ctx, level, "Login attempt",
		"session_id", msg.SessionID,
		"username", msg.Username,
		"success", msg.Success,
		"client_ip", msg.ClientIP,
		"at", msg.Timestamp.Format(time.RFC3339),
		"user_failures", userFailures,
		"total_attempts", attempts,
		"total_failures", failures)
	return nil
}

// Stats returns a snapshot of the counters.
func (w *AuditWorker) Stats() AuditStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.stats
	s.FailuresByUser = make(map[string]int, len(w.stats.FailuresByUser))
	for k, v := range w.stats.FailuresByUser {
		s.FailuresByUser[k] = v
	}
	return s
}

// ReportEvery logs the counters at the given interval until ctx is done.
func (w *AuditWorker) ReportEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := w.Stats()
			w.logger.InfoContext(ctx, "Audit summary",
				"attempts", s.Attempts,
				"successes", s.Successes,
				"failures", s.Failures)
		}
	}
}
