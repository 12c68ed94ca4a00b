// Package config loads the YAML configuration shared by the extsort
// commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	defaults "github.com/xtxerr/extsort/config"
	"github.com/xtxerr/extsort/internal/sorter"
	"github.com/xtxerr/extsort/internal/stats"
	"github.com/xtxerr/extsort/internal/stats/export"
)

// Config represents the complete configuration.
type Config struct {
	// Sort configures the sort driver.
	Sort SortConfig `yaml:"sort"`

	// Report configures phase reporting.
	Report ReportConfig `yaml:"report"`

	// Sweep configures the alpha and beta sweeps.
	Sweep SweepConfig `yaml:"sweep"`

	// Export configures sweep output files.
	Export ExportConfig `yaml:"export"`

	// Logging configures the global logger.
	Logging LoggingConfig `yaml:"logging"`
}

// SortConfig configures a single sort.
type SortConfig struct {
	// Strategy is the merge strategy: balanced, polyphase, cascade
	// (or B, P, C).
	Strategy string `yaml:"strategy"`

	// FileCount is the number of files k.
	FileCount int `yaml:"file_count"`

	// MemoryBudget is the number of values M held during run formation.
	MemoryBudget int `yaml:"memory_budget"`
}

// ReportConfig configures phase reporting.
type ReportConfig struct {
	// Verbose prints a table per phase to stdout.
	Verbose bool `yaml:"verbose"`

	// Journal is a path for protobuf phase frames. Empty disables it.
	Journal string `yaml:"journal"`

	// MaxRunValues truncates printed runs. 0 prints them whole.
	MaxRunValues int `yaml:"max_run_values"`
}

// SweepConfig configures the alpha and beta sweeps.
type SweepConfig struct {
	// Strategies lists the strategies the alpha sweep measures.
	Strategies []string `yaml:"strategies"`

	// FileCount is k for the alpha sweep.
	FileCount int `yaml:"file_count"`

	// MemoryBudget is M for the alpha sweep.
	MemoryBudget int `yaml:"memory_budget"`

	// MinRuns, MaxRuns and Step span the alpha sweep's initial run counts.
	MinRuns int `yaml:"min_runs"`
	MaxRuns int `yaml:"max_runs"`
	Step    int `yaml:"step"`

	// Budgets lists the memory budgets the beta sweep measures.
	Budgets []int `yaml:"budgets"`

	// InputSize is the beta sweep's vector length.
	InputSize int `yaml:"input_size"`

	// Repetitions per sweep point.
	Repetitions int `yaml:"repetitions"`

	// ValueRange bounds random values to [-ValueRange, ValueRange].
	ValueRange int `yaml:"value_range"`

	// Workers bounds parallel repetitions. 0 uses GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Seed is the base seed of every repetition's generator.
	Seed uint64 `yaml:"seed"`
}

// ExportConfig configures sweep output.
type ExportConfig struct {
	// Dir receives alpha.parquet and beta.parquet.
	Dir string `yaml:"dir"`

	// Compression is the Parquet codec: snappy, zstd, gzip, none.
	Compression string `yaml:"compression"`

	// MemoryLimit is the DuckDB memory limit for summaries.
	MemoryLimit string `yaml:"memory_limit"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	strategies := make([]string, len(sorter.Strategies))
	for i, s := range sorter.Strategies {
		strategies[i] = s.String()
	}

	return &Config{
		Sort: SortConfig{
			Strategy:     defaults.DefaultStrategy,
			FileCount:    defaults.DefaultFileCount,
			MemoryBudget: defaults.DefaultMemoryBudget,
		},
		Report: ReportConfig{
			MaxRunValues: defaults.DefaultReportMaxRunValues,
		},
		Sweep: SweepConfig{
			Strategies:   strategies,
			FileCount:    defaults.DefaultSweepFileCount,
			MemoryBudget: defaults.DefaultSweepMemoryBudget,
			MinRuns:      defaults.DefaultAlphaMinRuns,
			MaxRuns:      defaults.DefaultAlphaMaxRuns,
			Step:         defaults.DefaultAlphaStep,
			Budgets:      defaults.DefaultBetaBudgets(),
			InputSize:    defaults.DefaultBetaInputSize,
			Repetitions:  defaults.DefaultSweepRepetitions,
			ValueRange:   defaults.DefaultSweepValueRange,
			Workers:      defaults.DefaultSweepWorkers,
			Seed:         defaults.DefaultSweepSeed,
		},
		Export: ExportConfig{
			Dir:         defaults.DefaultExportDir,
			Compression: defaults.DefaultExportCompression,
		},
		Logging: LoggingConfig{
			Level:  defaults.DefaultLogLevel,
			Format: defaults.DefaultLogFormat,
		},
	}
}

// ParsedStrategy returns the parsed sort strategy.
func (c *SortConfig) ParsedStrategy() (sorter.Strategy, error) {
	return sorter.ParseStrategy(c.Strategy)
}

// SorterConfig returns the sorter configuration.
func (c *SortConfig) SorterConfig() sorter.Config {
	return sorter.Config{FileCount: c.FileCount, MemoryBudget: c.MemoryBudget}
}

// AlphaConfig returns the alpha sweep configuration.
func (c *SweepConfig) AlphaConfig() (stats.AlphaConfig, error) {
	strategies := make([]sorter.Strategy, 0, len(c.Strategies))
	for _, name := range c.Strategies {
		s, err := sorter.ParseStrategy(name)
		if err != nil {
			return stats.AlphaConfig{}, err
		}
		strategies = append(strategies, s)
	}

	return stats.AlphaConfig{
		Strategies:   strategies,
		FileCount:    c.FileCount,
		MemoryBudget: c.MemoryBudget,
		MinRuns:      c.MinRuns,
		MaxRuns:      c.MaxRuns,
		Step:         c.Step,
		Repetitions:  c.Repetitions,
		ValueRange:   c.ValueRange,
		Workers:      c.Workers,
		Seed:         c.Seed,
	}, nil
}

// BetaConfig returns the beta sweep configuration.
func (c *SweepConfig) BetaConfig() stats.BetaConfig {
	return stats.BetaConfig{
		Budgets:     c.Budgets,
		InputSize:   c.InputSize,
		Repetitions: c.Repetitions,
		ValueRange:  c.ValueRange,
		Workers:     c.Workers,
		Seed:        c.Seed,
	}
}

// Options returns the Parquet writer options.
func (c *ExportConfig) Options() (export.Options, error) {
	ct, err := export.ParseCompressionType(c.Compression)
	if err != nil {
		return export.Options{}, err
	}
	return export.Options{Compression: ct}, nil
}

// AlphaPath returns the alpha output file path.
func (c *ExportConfig) AlphaPath() string {
	return filepath.Join(c.Dir, export.AlphaFile)
}

// BetaPath returns the beta output file path.
func (c *ExportConfig) BetaPath() string {
	return filepath.Join(c.Dir, export.BetaFile)
}
