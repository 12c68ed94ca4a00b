// Package config provides configuration defaults for the extsort tools.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via the YAML config file or flags.
package config

// =============================================================================
// Sort Defaults
// =============================================================================

const (
	// DefaultStrategy is the merge strategy used when none is given.
	// One of: balanced, polyphase, cascade (or B, P, C).
	// Override via config: sort.strategy
	DefaultStrategy = "balanced"

	// DefaultFileCount is the number of simulated files.
	// Balanced and cascade need at least 2, polyphase at least 3.
	// Override via config: sort.file_count
	DefaultFileCount = 4

	// DefaultMemoryBudget is M, the number of values buffered during run
	// formation. Runs average about 2M values on random input.
	// Override via config: sort.memory_budget
	DefaultMemoryBudget = 3
)

// =============================================================================
// Report Defaults
// =============================================================================

const (
	// DefaultJournalMaxFrameSize limits one journal frame when reading it back.
	// A frame holds a full snapshot, so this bounds snapshot size, not input size.
	// Override via config: report.max_frame_size
	DefaultJournalMaxFrameSize = 64 * 1024 * 1024

	// DefaultReportMaxRunValues caps the values printed per run in text reports.
	// 0 prints every value.
	// Override via config: report.max_run_values
	DefaultReportMaxRunValues = 0
)

// =============================================================================
// Sweep Defaults
// =============================================================================

const (
	// DefaultSweepFileCount is the file count used by the alpha sweep.
	// Override via config: sweep.alpha.file_count
	DefaultSweepFileCount = 10

	// DefaultSweepMemoryBudget is M for the alpha sweep.
	// Override via config: sweep.alpha.memory_budget
	DefaultSweepMemoryBudget = 10

	// DefaultAlphaMinRuns, DefaultAlphaMaxRuns and DefaultAlphaStep span the
	// initial run counts of the alpha sweep.
	// Override via config: sweep.alpha.min_runs, max_runs, step
	DefaultAlphaMinRuns = 10
	DefaultAlphaMaxRuns = 1000
	DefaultAlphaStep    = 10

	// DefaultSweepRepetitions is the number of sorts averaged per point.
	// Override via config: sweep.repetitions
	DefaultSweepRepetitions = 10

	// DefaultBetaInputSize is the length of each random vector run formation
	// is measured on.
	// Override via config: sweep.beta.input_size
	DefaultBetaInputSize = 100000

	// DefaultSweepValueRange bounds generated values to [-range, range].
	// Override via config: sweep.value_range
	DefaultSweepValueRange = 10000

	// DefaultSweepWorkers is the number of repetitions run in parallel.
	// 0 means runtime.GOMAXPROCS(0).
	// Override via config: sweep.workers
	DefaultSweepWorkers = 0

	// DefaultSweepSeed seeds every generator of a sweep.
	// Override via config: sweep.seed
	DefaultSweepSeed = 1
)

// =============================================================================
// Export Defaults
// =============================================================================

const (
	// DefaultExportCompression is the Parquet compression codec.
	// Options: zstd, snappy, gzip, none
	// Override via config: export.compression
	DefaultExportCompression = "zstd"

	// DefaultExportDir is where sweep tables are written.
	// Override via config: export.dir
	DefaultExportDir = "data"

	// DefaultSketchRelativeAccuracy is the DDSketch relative accuracy used
	// for run length quantiles.
	DefaultSketchRelativeAccuracy = 0.01
)

// =============================================================================
// Logging Defaults
// =============================================================================

const (
	// DefaultLogLevel is the minimum level logged.
	// Options: debug, info, warn, error
	// Override via config: logging.level
	DefaultLogLevel = "info"

	// DefaultLogFormat selects the slog handler.
	// Options: text, json
	// Override via config: logging.format
	DefaultLogFormat = "text"
)

// DefaultBetaBudgets returns the memory budgets measured by the beta sweep.
// Override via config: sweep.beta.budgets
func DefaultBetaBudgets() []int {
	return []int{3, 15, 30, 45, 60}
}
