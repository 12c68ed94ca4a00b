package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/xtxerr/extsort/internal/config"
	"github.com/xtxerr/extsort/internal/stats/export"
)

func smallConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Export.Dir = t.TempDir()
	cfg.Sweep.FileCount = 4
	cfg.Sweep.MemoryBudget = 3
	cfg.Sweep.MinRuns = 5
	cfg.Sweep.MaxRuns = 15
	cfg.Sweep.Step = 5
	cfg.Sweep.Budgets = []int{2, 8}
	cfg.Sweep.InputSize = 2000
	cfg.Sweep.Repetitions = 2
	cfg.Sweep.Workers = 2
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return cfg
}

func TestRunner_Run(t *testing.T) {
	cfg := smallConfig(t)

	var out bytes.Buffer
	r := &runner{cfg: cfg, out: &out}
	if err := r.run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	alpha, err := export.ReadAlpha(cfg.Export.AlphaPath())
	if err != nil {
		t.Fatalf("ReadAlpha failed: %v", err)
	}
	// 3 strategies x 3 run counts x 2 repetitions
	if len(alpha) != 18 {
		t.Errorf("expected 18 alpha rows, got %d", len(alpha))
	}

	beta, err := export.ReadBeta(cfg.Export.BetaPath())
	if err != nil {
		t.Fatalf("ReadBeta failed: %v", err)
	}
	if len(beta) != 4 {
		t.Errorf("expected 4 beta rows, got %d", len(beta))
	}

	text := out.String()
	for _, want := range []string{"alpha: merge writes per value", "polyphase", "cascade", "beta: mean run length / M", "run lengths over all budgets"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRunner_SkipAlpha(t *testing.T) {
	cfg := smallConfig(t)

	var out bytes.Buffer
	r := &runner{cfg: cfg, out: &out, skipAlpha: true}
	if err := r.run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, err := os.Stat(cfg.Export.AlphaPath()); !os.IsNotExist(err) {
		t.Errorf("alpha file should not exist: %v", err)
	}
	if strings.Contains(out.String(), "alpha:") {
		t.Error("alpha summary printed while skipped")
	}
}

func TestRunner_Canceled(t *testing.T) {
	cfg := smallConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &runner{cfg: cfg, out: &bytes.Buffer{}}
	if err := r.run(ctx); err == nil {
		t.Error("expected error for canceled context")
	}
}
