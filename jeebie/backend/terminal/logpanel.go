package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// logEntry is a single formatted record.
type logEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

func (e logEntry) String() string {
	var level string
	switch {
	case e.Level >= slog.LevelError:
		level = "ERR"
	case e.Level >= slog.LevelWarn:
		level = "WRN"
	case e.Level >= slog.LevelInfo:
		level = "INF"
	default:
		level = "DBG"
	}
	return fmt.Sprintf("%s [%s] %s", e.Time.Format("15:04:05"), level, e.Message)
}

// logRing keeps the last records in a fixed size ring.
type logRing struct {
	mu      sync.Mutex
	entries []logEntry
	next    int
	count   int
}

func newLogRing(size int) *logRing {
	return &logRing{entries: make([]logEntry, size)}
}

func (r *logRing) add(entry logEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.next] = entry
	r.next = (r.next + 1) % len(r.entries)
	if r.count < len(r.entries) {
		r.count++
	}
}

// recent returns up to limit entries at or above level, newest first.
func (r *logRing) recent(limit int, level slog.Level) []logEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []logEntry
	for i := 0; i < r.count && len(out) < limit; i++ {
		entry := r.entries[(r.next-1-i+len(r.entries))%len(r.entries)]
		if entry.Level >= level {
			out = append(out, entry)
		}
	}
	return out
}

// logHandler is a slog.Handler feeding a logRing, so log output lands in
// the side panel instead of corrupting the screen.
type logHandler struct {
	ring   *logRing
	level  slog.Leveler
	prefix string
	group  string
}

func (h *logHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *logHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)
	sb.WriteString(h.prefix)
	record.Attrs(func(a slog.Attr) bool {
		sb.WriteString(formatAttr(h.group, a))
		return true
	})

	h.ring.add(logEntry{Time: record.Time, Level: record.Level, Message: sb.String()})
	return nil
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	for _, a := range attrs {
		next.prefix += formatAttr(h.group, a)
	}
	return &next
}

func (h *logHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.group + name + "."
	return &next
}

func formatAttr(group string, a slog.Attr) string {
	return fmt.Sprintf(" %s%s=%v", group, a.Key, a.Value)
}
