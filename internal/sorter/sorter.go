// Package sorter implements the balanced, polyphase and cascade external
// merge sorts over simulated files.
//
// Every strategy starts from the runs formed by replacement selection and
// merges aligned groups of runs until a single run remains. The engines
// count the values they read and write, which is the cost an external sort
// pays in I/O; nothing touches the file system.
//
// Usage:
//
//	s, err := sorter.New[int](sorter.Polyphase, sorter.Config{FileCount: 4, MemoryBudget: 100})
//	if err != nil {
//	    return err
//	}
//	out, err := s.Sort(data)
//	alpha := s.Stats().WritesPerValue()
package sorter

import (
	"cmp"
	"log/slog"
	"os"

	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/logging"
	"github.com/xtxerr/extsort/internal/merge"
	"github.com/xtxerr/extsort/internal/report"
	"github.com/xtxerr/extsort/internal/runs"
	"github.com/xtxerr/extsort/internal/schedule"
	"github.com/xtxerr/extsort/internal/tape"
)

// Stats holds the cost counters of the last sort.
type Stats struct {
	Runs    int // initial runs
	Phases  int // merge phases, excluding the initial distribution
	Dummies int // dummy runs added by the schedule
	Values  int // values sorted
	Reads   int // values read by merges
	Writes  int // values written by merges
}

// WritesPerValue returns the mean number of times each value was written
// during merging, or 0 for an empty sort.
func (s Stats) WritesPerValue() float64 {
	if s.Values == 0 {
		return 0
	}
	return float64(s.Writes) / float64(s.Values)
}

// Option configures a Sorter.
type Option[T any] func(*Sorter[T])

// WithObserver attaches a phase observer.
func WithObserver[T any](o report.Observer[T]) Option[T] {
	return func(s *Sorter[T]) {
		s.observer = o
	}
}

// WithLogger replaces the component logger.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(s *Sorter[T]) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSchedules replaces the shared level cache.
func WithSchedules[T any](c *schedule.Cache) Option[T] {
	return func(s *Sorter[T]) {
		if c != nil {
			s.schedules = c
		}
	}
}

// Sorter runs one strategy with fixed dimensions.
// A Sorter is not safe for concurrent use; Stats refers to the last sort.
type Sorter[T any] struct {
	strategy Strategy
	cfg      Config
	compare  func(a, b T) int

	observer  report.Observer[T]
	log       *slog.Logger
	schedules *schedule.Cache

	stats Stats
}

// New creates a sorter for ordered values.
func New[T cmp.Ordered](strategy Strategy, cfg Config, opts ...Option[T]) (*Sorter[T], error) {
	return NewFunc(strategy, cfg, cmp.Compare[T], opts...)
}

// NewFunc creates a sorter ordering values with compare.
// The configuration is validated here, so Sort never fails on it.
func NewFunc[T any](strategy Strategy, cfg Config, compare func(a, b T) int, opts ...Option[T]) (*Sorter[T], error) {
	if err := cfg.Validate(strategy); err != nil {
		return nil, err
	}
	if compare == nil {
		return nil, errors.NewMissingField("compare")
	}

	s := &Sorter[T]{
		strategy:  strategy,
		cfg:       cfg,
		compare:   compare,
		log:       logging.Component("sorter"),
		schedules: schedule.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("strategy", strategy.String())
	return s, nil
}

// Strategy returns the sorter's strategy.
func (s *Sorter[T]) Strategy() Strategy {
	return s.strategy
}

// Config returns the sorter's dimensions.
func (s *Sorter[T]) Config() Config {
	return s.cfg
}

// Stats returns the counters of the last sort.
func (s *Sorter[T]) Stats() Stats {
	return s.stats
}

// Sort returns a sorted copy of data. data is not modified.
func (s *Sorter[T]) Sort(data []T) ([]T, error) {
	b, err := runs.NewFunc(s.cfg.MemoryBudget, s.compare)
	if err != nil {
		return nil, err
	}

	s.stats = Stats{Values: len(data)}
	return s.sortRuns(b.Build(data))
}

// SortFiles sorts runs that are already formed, skipping run formation.
// Runs are taken in formation order, dealt round-robin across files, and
// redistributed by the strategy. Every run must be ascending.
func (s *Sorter[T]) SortFiles(files tape.FileSet[T]) ([]T, error) {
	var built []tape.Run[T]
	for j := 0; ; j++ {
		found := false
		for i, f := range files {
			if j >= f.Len() {
				continue
			}
			found = true
			r := f.Run(j)
			if !tape.Ascending(r, s.compare) {
				return nil, errors.Wrapf(errors.Join(errors.ErrInvalidInput, errors.ErrNotSorted), "file %d run %d", i, j)
			}
			built = append(built, r)
		}
		if !found {
			break
		}
	}

	s.stats = Stats{Values: files.ValueCount()}
	return s.sortRuns(built)
}

func (s *Sorter[T]) sortRuns(built []tape.Run[T]) ([]T, error) {
	s.stats.Runs = len(built)

	e := &engine[T]{
		Sorter: s,
		sel:    merge.NewSelectorFunc(s.compare),
	}

	var (
		files tape.FileSet[T]
		err   error
	)
	switch s.strategy {
	case Balanced:
		files, err = e.balanced(built)
	case Polyphase:
		files, err = e.polyphase(built)
	case Cascade:
		files, err = e.cascade(built)
	default:
		err = errors.NewInvalidValue(errors.ErrInvalidStrategy, "strategy", int(s.strategy), "unknown strategy")
	}
	s.stats.Reads = e.sel.Reads()
	if err != nil {
		return nil, err
	}

	if n := files.RunCount(); n > 1 {
		return nil, errors.NewIntegrity("%s merge finished with %d runs", s.strategy, n)
	}

	s.log.Debug("sort complete",
		"values", s.stats.Values,
		"runs", s.stats.Runs,
		"phases", s.stats.Phases,
		"dummies", s.stats.Dummies,
		"writes", s.stats.Writes,
	)
	return files.Flatten(), nil
}

// engine holds the per-sort merge state shared by the strategies.
type engine[T any] struct {
	*Sorter[T]
	sel *merge.Selector[T]
}

// mergeGroup merges one aligned group into a new run.
func (e *engine[T]) mergeGroup(group []tape.Run[T]) tape.Run[T] {
	out := e.sel.Merge(group)
	e.stats.Writes += len(out)
	return out
}

// observe reports one phase. Snapshots are only built when someone listens.
func (e *engine[T]) observe(phase int, labels []string, files tape.FileSet[T], dummies []int) error {
	if phase > 0 {
		e.log.Debug("phase merged", "phase", phase, "runs", files.RunCount())
	}
	if e.observer == nil {
		return nil
	}
	snap, err := report.NewSnapshot(e.strategy.String(), phase, labels, files, dummies, e.cfg.MemoryBudget)
	if err != nil {
		return errors.Wrapf(err, "%s phase %d", e.strategy, phase)
	}
	e.observer.ObservePhase(snap)
	return nil
}

// =============================================================================
// Entry Points
// =============================================================================

// SortBalanced sorts data with the balanced merge.
// With verbose set, phase tables are printed to stdout.
func SortBalanced[T cmp.Ordered](data []T, fileCount, memoryBudget int, verbose bool) ([]T, error) {
	return sortWith(Balanced, data, fileCount, memoryBudget, verbose)
}

// SortPolyphase sorts data with the polyphase merge.
// With verbose set, phase tables are printed to stdout.
func SortPolyphase[T cmp.Ordered](data []T, fileCount, memoryBudget int, verbose bool) ([]T, error) {
	return sortWith(Polyphase, data, fileCount, memoryBudget, verbose)
}

// SortCascade sorts data with the cascade merge.
// With verbose set, phase tables are printed to stdout.
func SortCascade[T cmp.Ordered](data []T, fileCount, memoryBudget int, verbose bool) ([]T, error) {
	return sortWith(Cascade, data, fileCount, memoryBudget, verbose)
}

func sortWith[T cmp.Ordered](strategy Strategy, data []T, fileCount, memoryBudget int, verbose bool) ([]T, error) {
	var opts []Option[T]
	if verbose {
		opts = append(opts, WithObserver[T](report.NewTextReporter[T](os.Stdout)))
	}
	s, err := New[T](strategy, Config{FileCount: fileCount, MemoryBudget: memoryBudget}, opts...)
	if err != nil {
		return nil, err
	}
	return s.Sort(data)
}
