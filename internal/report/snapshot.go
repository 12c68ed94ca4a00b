// Package report carries phase snapshots from the sorter to whoever wants
// to see them.
//
// The sorter calls an Observer after the initial distribution (phase 0)
// and after every merge phase. Snapshots are deep copies, so an observer
// may keep them; the sorter never reads anything back.
package report

import (
	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/tape"
)

// Snapshot is the state of every file after one phase.
type Snapshot[T any] struct {
	Strategy string
	Phase    int
	Labels   []string // one per file
	Files    [][][]T  // [file][run][value]
	Dummies  []int    // dummy runs per file, zero for balanced merges

	Runs   int     // real runs across all files
	Values int     // values across all files
	Ratio  float64 // Values / (Runs * memory budget)
}

// NewSnapshot copies files into a snapshot. A nil dummies slice means no
// dummies. Returns an integrity error if labels or dummies do not match the
// number of files.
func NewSnapshot[T any](strategy string, phase int, labels []string, files tape.FileSet[T], dummies []int, budget int) (Snapshot[T], error) {
	if len(labels) != len(files) {
		return Snapshot[T]{}, errors.NewIntegrity("%d labels for %d files", len(labels), len(files))
	}
	if dummies == nil {
		dummies = make([]int, len(files))
	}
	if len(dummies) != len(files) {
		return Snapshot[T]{}, errors.NewIntegrity("%d dummy counts for %d files", len(dummies), len(files))
	}

	s := Snapshot[T]{
		Strategy: strategy,
		Phase:    phase,
		Labels:   append([]string(nil), labels...),
		Files:    files.Contents(),
		Dummies:  append([]int(nil), dummies...),
		Runs:     files.RunCount(),
		Values:   files.ValueCount(),
	}
	if s.Runs > 0 && budget > 0 {
		s.Ratio = float64(s.Values) / float64(s.Runs*budget)
	}
	return s, nil
}

// Observer receives phase snapshots.
type Observer[T any] interface {
	ObservePhase(s Snapshot[T])
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc[T any] func(s Snapshot[T])

// ObservePhase implements Observer.
func (f ObserverFunc[T]) ObservePhase(s Snapshot[T]) { f(s) }

// Multi fans a snapshot out to several observers in order.
type Multi[T any] []Observer[T]

// ObservePhase implements Observer.
func (m Multi[T]) ObservePhase(s Snapshot[T]) {
	for _, o := range m {
		if o != nil {
			o.ObservePhase(s)
		}
	}
}

// Collector keeps every snapshot it receives.
type Collector[T any] struct {
	snapshots []Snapshot[T]
}

// ObservePhase implements Observer.
func (c *Collector[T]) ObservePhase(s Snapshot[T]) {
	c.snapshots = append(c.snapshots, s)
}

// Snapshots returns the snapshots received so far.
func (c *Collector[T]) Snapshots() []Snapshot[T] {
	return c.snapshots
}

// Reset drops collected snapshots.
func (c *Collector[T]) Reset() {
	c.snapshots = nil
}
