package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"momodash/internal/middleware/trace"
)

const liveWriteWait = 10 * time.Second

// The default origin check only admits same-host pages.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 8192,
}

// LiveFrame is one push on /ws/live.
type LiveFrame struct {
	Seq       int           `json:"seq"`
	SentAt    time.Time     `json:"sent_at"`
	Interval  string        `json:"interval,omitempty"`
	Dashboard DashboardView `json:"dashboard"`
}

// handleLive pushes the dashboard for the requested criteria once, then
// again every interval until the client goes away. With live refresh off
// the socket is closed after the first frame.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	c, ok := criteria(w, r)
	if !ok {
		return
	}
	interval, on := ParseLiveInterval(r.URL.Query().Get("interval"), s.liveMin)

	// The handshake is written on the hijacked connection, so headers set on
	// w earlier never reach the client.
	hdr := http.Header{trace.HeaderRequestID: {trace.GetRequestID(r.Context())}}
	conn, err := upgrader.Upgrade(w, r, hdr)
	if err != nil {
		slog.WarnContext(r.Context(), "Websocket upgrade failed", "component", "live", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	seq := 0
	push := func() error {
		seq++
		frame := LiveFrame{
			Seq:       seq,
			SentAt:    time.Now().UTC(),
			Dashboard: NewDashboardView(s.dashboard.Dashboard(ctx, c)),
		}
		if on {
			frame.Interval = interval.String()
		}
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		return conn.WriteJSON(frame)
	}

	if err := push(); err != nil {
		return
	}
	if !on {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "live refresh off"),
			time.Now().Add(liveWriteWait))
		return
	}

	slog.DebugContext(ctx, "Live refresh started", "component", "live", "interval", interval, "criteria", c.Key())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := push(); err != nil {
				slog.DebugContext(ctx, "Live refresh stopped", "component", "live", "error", err)
				return
			}
		}
	}
}
