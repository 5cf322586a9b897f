package eventstream

import (
	"log/slog"
	"strings"
	"time"
)

// debugMaxStreams is the registration count above which debug mode warns.
const debugMaxStreams = 256

// SetDebugMode toggles per-event debug logging through the configured
// logger.
func (m *Manager[S]) SetDebugMode(on bool) { m.debug = on }

// debugLog records one dispatch: what came in, what it translated to, and
// how many handlers ran.
func (m *Manager[S]) debugLog(label string, snap *Snapshot, events []SceneEvent, invoked int, status UpdateStatus, elapsed time.Duration) {
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.String()
	}
	m.cfg.Logger.Debug("eventstream dispatch",
		slog.String("raw", label),
		slog.Uint64("snapshot", snap.Version()),
		slog.String("events", strings.Join(names, ", ")),
		slog.Int("invoked", invoked),
		slog.String("status", status.String()),
		slog.Duration("elapsed", elapsed),
	)
}

// debugCheckStreams warns when registrations pile up, which usually means
// streams are registered per frame and never removed.
func (m *Manager[S]) debugCheckStreams() {
	if len(m.regs) > debugMaxStreams {
		m.cfg.Logger.Warn("eventstream registration count exceeds threshold",
			slog.Int("streams", len(m.regs)),
			slog.Int("threshold", debugMaxStreams),
		)
	}
}
