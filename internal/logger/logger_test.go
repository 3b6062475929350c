package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mxvel/topupmart/internal/config"
)

func TestNewRespectsConfiguredLevel(t *testing.T) {
	cases := []struct {
		level   string
		enabled slog.Level
		muted   slog.Level
	}{
		{level: "debug", enabled: slog.LevelDebug, muted: slog.LevelDebug - 4},
		{level: "info", enabled: slog.LevelInfo, muted: slog.LevelDebug},
		{level: "warn", enabled: slog.LevelWarn, muted: slog.LevelInfo},
		{level: "error", enabled: slog.LevelError, muted: slog.LevelWarn},
		{level: "", enabled: slog.LevelInfo, muted: slog.LevelDebug},
		{level: "verbose", enabled: slog.LevelInfo, muted: slog.LevelDebug},
	}
	for _, tc := range cases {
		t.Run("level "+tc.level, func(t *testing.T) {
			l := New(&config.Config{LogLevel: tc.level})
			if l == nil {
				t.Fatal("expected logger, got nil")
			}
			if !l.Enabled(context.Background(), tc.enabled) {
				t.Errorf("expected %v to be enabled for %q", tc.enabled, tc.level)
			}
			if l.Enabled(context.Background(), tc.muted) {
				t.Errorf("did not expect %v to be enabled for %q", tc.muted, tc.level)
			}
		})
	}
}

func TestNewProducesJSONHandler(t *testing.T) {
	l := New(&config.Config{LogLevel: "info"})
	if _, ok := l.Handler().(*slog.JSONHandler); !ok {
		t.Fatalf("expected JSON handler, got %T", l.Handler())
	}
}
