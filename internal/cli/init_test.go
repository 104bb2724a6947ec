package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	applog "momodash/internal/log"
)

func testLogger(buf *bytes.Buffer) *applog.Logger {
	return applog.New(applog.Config{Level: slog.LevelDebug, Output: buf})
}

func TestGracefulShutdownRunsEveryStep(t *testing.T) {
	var buf bytes.Buffer
	var ran []string
	err := GracefulShutdown(testLogger(&buf), time.Second,
		func(context.Context) error { ran = append(ran, "http"); return nil },
		func(context.Context) error { ran = append(ran, "amqp"); return errors.New("close failed") },
		func(context.Context) error { ran = append(ran, "db"); return nil },
	)
	if len(ran) != 3 {
		t.Fatalf("ran %v", ran)
	}
	if err == nil || !strings.Contains(err.Error(), "close failed") {
		t.Fatalf("expected joined error, got %v", err)
	}
}

func TestGracefulShutdownTimeout(t *testing.T) {
	var buf bytes.Buffer
	block := make(chan struct{})
	defer close(block)
	err := GracefulShutdown(testLogger(&buf), 20*time.Millisecond, func(context.Context) error {
		<-block
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !strings.Contains(buf.String(), "Shutdown timeout reached") {
		t.Fatalf("missing timeout log: %s", buf.String())
	}
}

func TestCleanupsRelease(t *testing.T) {
	var buf bytes.Buffer
	logger := testLogger(&buf)

	t.Run("runs steps when start-up fails", func(t *testing.T) {
		var c Cleanups
		closed := 0
		c.Add(func(context.Context) error { closed++; return nil })
		c.Add(func(context.Context) error { closed++; return nil })
		if err := c.Release(logger, time.Second); err != nil {
			t.Fatalf("Release() = %v", err)
		}
		if closed != 2 {
			t.Fatalf("closed %d resources, want 2", closed)
		}
	})

	t.Run("skips steps once handed off", func(t *testing.T) {
		var c Cleanups
		closed := 0
		c.Add(func(context.Context) error { closed++; return nil })
		if steps := c.HandOff(); len(steps) != 1 {
			t.Fatalf("HandOff() returned %d steps", len(steps))
		}
		if err := c.Release(logger, time.Second); err != nil || closed != 0 {
			t.Fatalf("Release() after hand-off ran steps: closed=%d err=%v", closed, err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		var c Cleanups
		if err := c.Release(logger, time.Second); err != nil {
			t.Fatalf("Release() = %v", err)
		}
	})
}
