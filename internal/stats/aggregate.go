package stats

import (
	"math"
	"sync"

	"github.com/DataDog/sketches-go/ddsketch"
	"github.com/xtxerr/extsort/config"
)

// RunLengthAggregate maintains running statistics over run lengths.
// Quantiles come from a DDSketch; the rest is exact.
type RunLengthAggregate struct {
	mu sync.Mutex

	accuracy float64

	count int64
	sum   float64
	min   float64
	max   float64

	// nil if the sketch could not be created
	sketch *ddsketch.DDSketch
}

// RunLengthResult is a snapshot of a RunLengthAggregate.
type RunLengthResult struct {
	Count int64
	Mean  float64
	Min   float64
	Max   float64
	P50   float64
	P90   float64
	P99   float64
}

// NewRunLengthAggregate creates an aggregate with the default sketch accuracy.
func NewRunLengthAggregate() *RunLengthAggregate {
	return NewRunLengthAggregateWithAccuracy(config.DefaultSketchRelativeAccuracy)
}

// NewRunLengthAggregateWithAccuracy creates an aggregate with a custom
// relative accuracy for quantiles.
func NewRunLengthAggregateWithAccuracy(accuracy float64) *RunLengthAggregate {
	a := &RunLengthAggregate{accuracy: accuracy}
	a.reset()
	return a
}

// Add records one run length.
func (a *RunLengthAggregate) Add(length int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	v := float64(length)
	a.count++
	a.sum += v
	if v < a.min {
		a.min = v
	}
	if v > a.max {
		a.max = v
	}

	// DDSketch only tracks positive values; empty runs still count above.
	if a.sketch != nil && v > 0 {
		a.sketch.Add(v)
	}
}

// Count returns the number of lengths added.
func (a *RunLengthAggregate) Count() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

// Result returns the current statistics.
func (a *RunLengthAggregate) Result() RunLengthResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	r := RunLengthResult{Count: a.count}
	if a.count == 0 {
		return r
	}
	r.Mean = a.sum / float64(a.count)
	r.Min = a.min
	r.Max = a.max

	if a.sketch != nil && !a.sketch.IsEmpty() {
		r.P50, _ = a.sketch.GetValueAtQuantile(0.50)
		r.P90, _ = a.sketch.GetValueAtQuantile(0.90)
		r.P99, _ = a.sketch.GetValueAtQuantile(0.99)
	}
	return r
}

// Merge folds other into a. other is copied under its own lock first, so
// concurrent merges in both directions cannot deadlock.
func (a *RunLengthAggregate) Merge(other *RunLengthAggregate) {
	if other == nil || other == a {
		return
	}

	other.mu.Lock()
	count, sum, lo, hi := other.count, other.sum, other.min, other.max
	var sketch *ddsketch.DDSketch
	if other.sketch != nil && count > 0 {
		sketch = other.sketch.Copy()
	}
	other.mu.Unlock()

	if count == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.count += count
	a.sum += sum
	if lo < a.min {
		a.min = lo
	}
	if hi > a.max {
		a.max = hi
	}

	if a.sketch != nil && sketch != nil {
		a.sketch.MergeWith(sketch)
	}
}

// Reset clears the aggregate.
func (a *RunLengthAggregate) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
}

func (a *RunLengthAggregate) reset() {
	a.count = 0
	a.sum = 0
	a.min = math.MaxFloat64
	a.max = -math.MaxFloat64

	// DDSketch has no Clear; build a new one.
	sketch, err := ddsketch.NewDefaultDDSketch(a.accuracy)
	if err != nil {
		sketch = nil
	}
	a.sketch = sketch
}
