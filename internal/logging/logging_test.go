package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, slog.LevelInfo, false)

	Component("sorter").Info("phase merged", "phase", 2)

	out := buf.String()
	if !strings.Contains(out, "component=sorter") {
		t.Errorf("missing component attribute: %s", out)
	}
	if !strings.Contains(out, "phase=2") {
		t.Errorf("missing phase attribute: %s", out)
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, slog.LevelInfo, true)

	ctx := ContextWithStrategy(context.Background(), "polyphase")
	ctx = ContextWithSweep(ctx, "alpha")
	WithContext(ctx).Info("repetition done")

	out := buf.String()
	if !strings.Contains(out, `"strategy":"polyphase"`) {
		t.Errorf("missing strategy: %s", out)
	}
	if !strings.Contains(out, `"sweep":"alpha"`) {
		t.Errorf("missing sweep: %s", out)
	}
}
