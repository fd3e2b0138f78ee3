package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(NewText(&buf, false))

	Logger().Debug("hidden")
	Logger().Warn("wire skipped", "index", 3)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %s", out)
	}
	if !strings.Contains(out, "wire skipped") || !strings.Contains(out, "index=3") {
		t.Errorf("unexpected output: %s", out)
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}

func TestNewTextVerbose(t *testing.T) {
	var buf bytes.Buffer
	NewText(&buf, true).Debug("detail")
	if !strings.Contains(buf.String(), "detail") {
		t.Errorf("verbose logger dropped debug record: %q", buf.String())
	}
}
