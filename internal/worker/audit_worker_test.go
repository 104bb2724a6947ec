package worker

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"momodash/internal/amqp"
)

func TestAuditWorkerCounts(t *testing.T) {
	var buf bytes.Buffer
	w := NewAuditWorker(slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()
	t0 := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)

	msgs := []*amqp.LoginAttemptMessage{
		{SessionID: "a", Username: "admin", Success: false, Timestamp: t0},
		{SessionID: "a", Username: "admin", Success: false, Timestamp: t0.Add(time.Second)},
		{SessionID: "b", Username: "root", Success: false, Timestamp: t0.Add(2 * time.Second)},
		{SessionID: "a", Username: "admin", Success: true, Timestamp: t0.Add(3 * time.Second)},
	}
	for _, m := range msgs {
		if err := w.HandleLoginAttempt(ctx, m); err != nil {
			t.Fatalf("HandleLoginAttempt() error = %v", err)
		}
	}

	s := w.Stats()
	if s.Attempts != 4 || s.Successes != 1 || s.Failures != 3 {
		t.Fatalf("unexpected stats %+v", s)
	}
	if s.FailuresByUser["admin"] != 2 || s.FailuresByUser["root"] != 1 {
		t.Fatalf("unexpected per-user failures %v", s.FailuresByUser)
	}
	if !s.LastAttempt.Equal(t0.Add(3 * time.Second)) {
		t.Fatalf("last attempt = %v", s.LastAttempt)
	}

	s.FailuresByUser["admin"] = 99
	if w.Stats().FailuresByUser["admin"] != 2 {
		t.Fatal("Stats() leaked internal map")
	}

	out := buf.String()
	if strings.Count(out, "level=WARN") != 3 || strings.Count(out, "level=INFO") != 1 {
		t.Fatalf("unexpected log levels:\n%s", out)
	}
	if strings.Contains(out, "password") {
		t.Fatal("audit log must not mention passwords")
	}
}
