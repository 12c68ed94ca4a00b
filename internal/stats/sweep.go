// Package stats runs the parameter sweeps that measure the sort engines.
//
// The alpha sweep measures merge cost: for every strategy and initial run
// count it sorts random unit runs and records how many times each value was
// written. The beta sweep measures run formation: for every memory budget M
// it forms runs over random vectors and records mean run length divided by M.
//
// Every repetition draws from its own generator derived from the sweep seed
// and the repetition's coordinates, so rows do not depend on scheduling.
package stats

import (
	"context"
	"runtime"

	"github.com/xtxerr/extsort/config"
	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/logging"
	"github.com/xtxerr/extsort/internal/random"
	"github.com/xtxerr/extsort/internal/runs"
	"github.com/xtxerr/extsort/internal/sorter"
	"golang.org/x/sync/errgroup"
)

// Seed keys separating the two sweeps' generator streams.
const (
	alphaKey uint64 = 0xa1
	betaKey  uint64 = 0xb2
)

// =============================================================================
// Alpha Sweep
// =============================================================================

// AlphaConfig configures the alpha sweep.
type AlphaConfig struct {
	Strategies   []sorter.Strategy
	FileCount    int
	MemoryBudget int
	MinRuns      int
	MaxRuns      int
	Step         int
	Repetitions  int
	ValueRange   int
	Workers      int
	Seed         uint64
}

// DefaultAlphaConfig returns an AlphaConfig with default values.
func DefaultAlphaConfig() AlphaConfig {
	return AlphaConfig{
		Strategies:   sorter.Strategies,
		FileCount:    config.DefaultSweepFileCount,
		MemoryBudget: config.DefaultSweepMemoryBudget,
		MinRuns:      config.DefaultAlphaMinRuns,
		MaxRuns:      config.DefaultAlphaMaxRuns,
		Step:         config.DefaultAlphaStep,
		Repetitions:  config.DefaultSweepRepetitions,
		ValueRange:   config.DefaultSweepValueRange,
		Workers:      config.DefaultSweepWorkers,
		Seed:         config.DefaultSweepSeed,
	}
}

// Validate checks the alpha sweep configuration.
func (c AlphaConfig) Validate() error {
	errs := errors.NewValidationErrors()

	if len(c.Strategies) == 0 {
		errs.AddMissing("strategies")
	}
	for _, s := range c.Strategies {
		errs.Add(sorter.Config{FileCount: c.FileCount, MemoryBudget: c.MemoryBudget}.Validate(s))
	}
	validateSpan(errs, c.MinRuns, c.MaxRuns, c.Step, "runs")
	validateCommon(errs, c.Repetitions, c.ValueRange, c.Workers)

	return errs.Err()
}

// AlphaRow is one alpha measurement: a single sort from Runs unit runs.
type AlphaRow struct {
	Strategy     string
	Runs         int
	Repetition   int
	FileCount    int
	MemoryBudget int
	Phases       int
	Dummies      int
	Writes       int
	Alpha        float64 // writes per value
}

// AlphaSweep sorts random unit runs for every strategy and run count.
// Rows are ordered by strategy, run count, then repetition.
func AlphaSweep(ctx context.Context, cfg AlphaConfig) ([]AlphaRow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx = logging.ContextWithSweep(ctx, "alpha")

	points := span(cfg.MinRuns, cfg.MaxRuns, cfg.Step)
	rows := make([]AlphaRow, len(cfg.Strategies)*len(points)*cfg.Repetitions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(cfg.Workers))

	i := 0
	for _, strategy := range cfg.Strategies {
		for _, n := range points {
			for rep := 0; rep < cfg.Repetitions; rep++ {
				row := &rows[i]
				i++

				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					r, err := alphaRepetition(cfg, strategy, n, rep)
					if err != nil {
						return err
					}
					*row = r
					return nil
				})
			}
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logging.WithContext(ctx).Info("alpha sweep complete", "rows", len(rows), "points", len(points))
	return rows, nil
}

func alphaRepetition(cfg AlphaConfig, strategy sorter.Strategy, n, rep int) (AlphaRow, error) {
	gen := random.Derive(cfg.Seed, alphaKey, uint64(strategy), uint64(n), uint64(rep))

	// Balanced starts from one side of the files, the others from the
	// working files.
	numFiles := cfg.FileCount - 1
	if strategy == sorter.Balanced {
		numFiles = (cfg.FileCount + 1) / 2
	}
	files := gen.UnitRuns(n, numFiles, -cfg.ValueRange, cfg.ValueRange)

	s, err := sorter.New[int](strategy, sorter.Config{FileCount: cfg.FileCount, MemoryBudget: cfg.MemoryBudget})
	if err != nil {
		return AlphaRow{}, err
	}
	if _, err := s.SortFiles(files); err != nil {
		return AlphaRow{}, errors.Wrapf(err, "%s with %d runs, repetition %d", strategy, n, rep)
	}

	st := s.Stats()
	return AlphaRow{
		Strategy:     strategy.String(),
		Runs:         n,
		Repetition:   rep,
		FileCount:    cfg.FileCount,
		MemoryBudget: cfg.MemoryBudget,
		Phases:       st.Phases,
		Dummies:      st.Dummies,
		Writes:       st.Writes,
		Alpha:        st.WritesPerValue(),
	}, nil
}

// =============================================================================
// Beta Sweep
// =============================================================================

// BetaConfig configures the beta sweep.
type BetaConfig struct {
	Budgets     []int
	InputSize   int
	Repetitions int
	ValueRange  int
	Workers     int
	Seed        uint64
}

// DefaultBetaConfig returns a BetaConfig with default values.
func DefaultBetaConfig() BetaConfig {
	return BetaConfig{
		Budgets:     config.DefaultBetaBudgets(),
		InputSize:   config.DefaultBetaInputSize,
		Repetitions: config.DefaultSweepRepetitions,
		ValueRange:  config.DefaultSweepValueRange,
		Workers:     config.DefaultSweepWorkers,
		Seed:        config.DefaultSweepSeed,
	}
}

// Validate checks the beta sweep configuration.
func (c BetaConfig) Validate() error {
	errs := errors.NewValidationErrors()

	if len(c.Budgets) == 0 {
		errs.AddMissing("budgets")
	}
	for _, m := range c.Budgets {
		if m < 1 {
			errs.Add(errors.NewInvalidValue(errors.ErrInvalidMemoryBudget, "budget", m, "must be at least 1"))
		}
	}
	if c.InputSize < 1 {
		errs.AddField("input_size", "must be at least 1")
	}
	validateCommon(errs, c.Repetitions, c.ValueRange, c.Workers)

	return errs.Err()
}

// BetaRow is one beta measurement: run formation over one random vector.
type BetaRow struct {
	Budget     int
	Repetition int
	InputSize  int
	Runs       int
	MeanLength float64
	Beta       float64 // MeanLength / Budget
	P50        float64
	P90        float64
	P99        float64
	Shortest   int
	Longest    int
}

// BetaSweep forms runs over random vectors for every memory budget.
// Rows are ordered by budget, then repetition. lengths, if not nil,
// receives every run length of the sweep.
func BetaSweep(ctx context.Context, cfg BetaConfig, lengths *RunLengthAggregate) ([]BetaRow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx = logging.ContextWithSweep(ctx, "beta")

	rows := make([]BetaRow, len(cfg.Budgets)*cfg.Repetitions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(cfg.Workers))

	i := 0
	for _, m := range cfg.Budgets {
		for rep := 0; rep < cfg.Repetitions; rep++ {
			row := &rows[i]
			i++

			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				r, agg, err := betaRepetition(cfg, m, rep)
				if err != nil {
					return err
				}
				*row = r
				if lengths != nil {
					lengths.Merge(agg)
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logging.WithContext(ctx).Info("beta sweep complete", "rows", len(rows), "budgets", len(cfg.Budgets))
	return rows, nil
}

func betaRepetition(cfg BetaConfig, m, rep int) (BetaRow, *RunLengthAggregate, error) {
	gen := random.Derive(cfg.Seed, betaKey, uint64(m), uint64(rep))
	data := gen.Vector(cfg.InputSize, -cfg.ValueRange, cfg.ValueRange)

	b, err := runs.New[int](m)
	if err != nil {
		return BetaRow{}, nil, err
	}

	agg := NewRunLengthAggregate()
	for _, r := range b.Build(data) {
		agg.Add(len(r))
	}

	st := b.Stats()
	res := agg.Result()
	return BetaRow{
		Budget:     m,
		Repetition: rep,
		InputSize:  cfg.InputSize,
		Runs:       st.Runs,
		MeanLength: st.AvgRunLength(),
		Beta:       st.AvgRunLength() / float64(m),
		P50:        res.P50,
		P90:        res.P90,
		P99:        res.P99,
		Shortest:   st.Shortest,
		Longest:    st.Longest,
	}, agg, nil
}

// =============================================================================
// Helpers
// =============================================================================

func span(lo, hi, step int) []int {
	var out []int
	for v := lo; v <= hi; v += step {
		out = append(out, v)
	}
	return out
}

func validateSpan(errs *errors.ValidationErrors, lo, hi, step int, field string) {
	if lo < 1 {
		errs.AddField("min_"+field, "must be at least 1")
	}
	if hi < lo {
		errs.AddField("max_"+field, "must not be below min_"+field)
	}
	if step < 1 {
		errs.AddField("step", "must be at least 1")
	}
}

func validateCommon(errs *errors.ValidationErrors, repetitions, valueRange, workers int) {
	if repetitions < 1 {
		errs.AddField("repetitions", "must be at least 1")
	}
	if valueRange < 0 {
		errs.AddField("value_range", "must not be negative")
	}
	if workers < 0 {
		errs.AddField("workers", "must not be negative")
	}
}

func workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}
