package logx

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerWritesToFile(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, false)
	logger.Info("rewrite pass started", "values", 12)

	out := buf.String()
	if !strings.Contains(out, "rewrite pass started") || !strings.Contains(out, "values=12") {
		t.Errorf("expected message and attrs in output, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"huh":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
