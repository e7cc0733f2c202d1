// Package slogutil builds the service's loggers on log/slog.
package slogutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// LineHandler writes one plain-text line per record:
//
//	2024-05-01T12:00:00Z [info] Request | conn=4f1c... method=GET status=200
//
// Attributes added through WithAttrs are rendered once, when the child
// handler is created, and copied into every line it writes.
type LineHandler struct {
	w     io.Writer
	level slog.Leveler
	mu    *sync.Mutex

	// prefix qualifies keys of attributes added after WithGroup.
	prefix string
	// preset holds " key=value" pairs rendered by WithAttrs.
	preset []byte
}

// NewLineHandler returns a handler writing to w. A nil opts or Level
// means info. A *slog.LevelVar is consulted on every record.
func NewLineHandler(w io.Writer, opts *slog.HandlerOptions) *LineHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &LineHandler{w: w, level: level, mu: &sync.Mutex{}}
}

func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	line := make([]byte, 0, 128+len(h.preset))

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line = ts.UTC().AppendFormat(line, time.RFC3339)
	line = append(line, " ["...)
	line = append(line, levelName(r.Level)...)
	line = append(line, "] "...)
	line = append(line, r.Message...)

	pairs := h.preset
	if r.NumAttrs() > 0 {
		pairs = append([]byte(nil), h.preset...)
		r.Attrs(func(a slog.Attr) bool {
			pairs = appendAttr(pairs, h.prefix, a)
			return true
		})
	}
	if len(pairs) > 0 {
		line = append(line, " |"...)
		line = append(line, pairs...)
	}
	line = append(line, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(line)
	return err
}

func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	child := *h
	child.preset = append([]byte(nil), h.preset...)
	for _, a := range attrs {
		child.preset = appendAttr(child.preset, h.prefix, a)
	}
	return &child
}

func (h *LineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	child := *h
	child.prefix = h.prefix + name + "."
	return &child
}

// appendAttr renders a as " key=value". Group values are flattened into
// dotted keys; empty attributes and empty groups are dropped.
func appendAttr(dst []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}

	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, m := range members {
			dst = appendAttr(dst, prefix, m)
		}
		return dst
	}

	if a.Key == "" {
		return dst
	}
	dst = append(dst, ' ')
	dst = append(dst, prefix...)
	dst = append(dst, a.Key...)
	dst = append(dst, '=')
	return append(dst, valueText(a.Value)...)
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

// valueText renders v so that a line can be split back into pairs:
// strings with spaces, '=' or quotes are Go-quoted.
func valueText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return quoteIfNeeded(v.String())
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return quoteIfNeeded(x.Error())
		case fmt.Stringer:
			return quoteIfNeeded(x.String())
		default:
			return quoteIfNeeded(fmt.Sprint(x))
		}
	default:
		return v.String()
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.Quote(s)
	}
	return s
}
