package clilog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// TimeFormat is the timestamp format used by file sinks.
const TimeFormat = "2006-01-02 15:04:05"

// sinkHandler is a slog.Handler writing the bracketed line format of the
// logging contract: "[LEVEL] message" for the console sink and
// "[timestamp][LEVEL] message" for file sinks. Attributes render as trailing
// key=value pairs.
type sinkHandler struct {
	mu         *sync.Mutex
	w          io.Writer
	level      slog.Level
	timestamps bool
	attrs      []slog.Attr
}

func newSinkHandler(w io.Writer, level slog.Level, timestamps bool) *sinkHandler {
	return &sinkHandler{mu: &sync.Mutex{}, w: w, level: level, timestamps: timestamps}
}

// Enabled implements slog.Handler.
func (h *sinkHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle implements slog.Handler.
func (h *sinkHandler) Handle(_ context.Context, record slog.Record) error {
	var line strings.Builder

	if h.timestamps {
		fmt.Fprintf(&line, "[%s]", record.Time.Format(TimeFormat))
	}
	fmt.Fprintf(&line, "[%s] %s", record.Level.String(), record.Message)

	for _, attr := range h.attrs {
		fmt.Fprintf(&line, " %s=%v", attr.Key, attr.Value)
	}
	record.Attrs(func(attr slog.Attr) bool {
		fmt.Fprintf(&line, " %s=%v", attr.Key, attr.Value)
		return true
	})
	line.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line.String())
	return err
}

// WithAttrs implements slog.Handler.
func (h *sinkHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup implements slog.Handler. Groups are flattened; the bracketed
// line format has no nesting.
func (h *sinkHandler) WithGroup(string) slog.Handler {
	return h
}

// fanoutHandler duplicates records to every attached sink.
type fanoutHandler struct {
	handlers []slog.Handler
}

// Enabled implements slog.Handler.
func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle implements slog.Handler.
func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WithAttrs implements slog.Handler.
func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		out[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: out}
}

// WithGroup implements slog.Handler.
func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		out[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: out}
}
