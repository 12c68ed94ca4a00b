package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/sorter"
	"github.com/xtxerr/extsort/internal/stats/export"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	s, err := cfg.Sort.ParsedStrategy()
	if err != nil || s != sorter.Balanced {
		t.Errorf("expected balanced strategy, got %v (%v)", s, err)
	}

	if len(cfg.Sweep.Strategies) != len(sorter.Strategies) {
		t.Errorf("expected every strategy in the sweep, got %v", cfg.Sweep.Strategies)
	}

	if cfg.Export.Dir == "" {
		t.Error("expected default export dir")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		is     error
	}{
		{"unknown strategy", func(c *Config) { c.Sort.Strategy = "quick" }, errors.ErrInvalidStrategy},
		{"polyphase with two files", func(c *Config) {
			c.Sort.Strategy = "P"
			c.Sort.FileCount = 2
		}, errors.ErrInvalidFileCount},
		{"zero memory", func(c *Config) { c.Sort.MemoryBudget = 0 }, errors.ErrInvalidMemoryBudget},
		{"negative max run values", func(c *Config) { c.Report.MaxRunValues = -1 }, errors.ErrInvalidConfig},
		{"unknown sweep strategy", func(c *Config) { c.Sweep.Strategies = []string{"heap"} }, errors.ErrInvalidStrategy},
		{"empty budgets", func(c *Config) { c.Sweep.Budgets = nil }, errors.ErrMissingField},
		{"inverted run span", func(c *Config) { c.Sweep.MaxRuns = c.Sweep.MinRuns - 1 }, errors.ErrInvalidConfig},
		{"missing export dir", func(c *Config) { c.Export.Dir = "" }, errors.ErrMissingField},
		{"bad compression", func(c *Config) { c.Export.Compression = "lzma" }, errors.ErrInvalidConfig},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, errors.ErrInvalidConfig},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, errors.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
sort:
  strategy: cascade
  file_count: 5
  memory_budget: 8
report:
  verbose: true
  journal: /tmp/phases.bin
sweep:
  strategies: [P, C]
  min_runs: 20
  max_runs: 200
  step: 20
  budgets: [4, 16]
  repetitions: 3
  workers: 2
  seed: 99
export:
  dir: /tmp/sweeps
  compression: snappy
logging:
  level: debug
  format: json
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if s, _ := cfg.Sort.ParsedStrategy(); s != sorter.Cascade {
		t.Errorf("expected cascade, got %v", s)
	}
	if got := cfg.Sort.SorterConfig(); got != (sorter.Config{FileCount: 5, MemoryBudget: 8}) {
		t.Errorf("sorter config = %+v", got)
	}
	if !cfg.Report.Verbose || cfg.Report.Journal != "/tmp/phases.bin" {
		t.Errorf("report = %+v", cfg.Report)
	}

	alpha, err := cfg.Sweep.AlphaConfig()
	if err != nil {
		t.Fatalf("AlphaConfig failed: %v", err)
	}
	if !reflect.DeepEqual(alpha.Strategies, []sorter.Strategy{sorter.Polyphase, sorter.Cascade}) {
		t.Errorf("alpha strategies = %v", alpha.Strategies)
	}
	if alpha.MinRuns != 20 || alpha.MaxRuns != 200 || alpha.Seed != 99 || alpha.Workers != 2 {
		t.Errorf("alpha config = %+v", alpha)
	}

	// Unset fields keep their defaults.
	if alpha.FileCount != DefaultConfig().Sweep.FileCount {
		t.Errorf("expected default sweep file count, got %d", alpha.FileCount)
	}

	beta := cfg.Sweep.BetaConfig()
	if !reflect.DeepEqual(beta.Budgets, []int{4, 16}) || beta.Repetitions != 3 {
		t.Errorf("beta config = %+v", beta)
	}

	opts, err := cfg.Export.Options()
	if err != nil || opts.Compression != export.CompressionSnappy {
		t.Errorf("export options = %+v (%v)", opts, err)
	}
	if cfg.Export.AlphaPath() != filepath.Join("/tmp/sweeps", export.AlphaFile) {
		t.Errorf("alpha path = %s", cfg.Export.AlphaPath())
	}

	if cfg.Logging.Level != "debug" || !cfg.Logging.JSON() {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadConfigInvalidFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	if err := os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")

	if err := os.WriteFile(configPath, []byte("sort:\n  file_count: 1\n"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	_, err := Load(configPath)
	if !errors.Is(err, errors.ErrInvalidFileCount) {
		t.Errorf("expected ErrInvalidFileCount, got %v", err)
	}
}
