// Package runs forms the initial sorted runs of an external sort.
//
// Runs are produced by replacement selection: a heap of at most M buffered
// values, each tagged with the run it belongs to. The smallest value of the
// current run is emitted and replaced by the next input value; an input value
// smaller than the one just emitted cannot extend the current run and is
// tagged for the next one. On random input this yields runs of about 2M
// values, and every run except the last holds at least M.
package runs

import (
	"cmp"
	"container/heap"

	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/tape"
)

// Builder forms runs under a memory budget.
type Builder[T any] struct {
	budget  int
	compare func(a, b T) int

	stats Stats
}

// Stats holds run formation counters, accumulated over every Build call.
type Stats struct {
	Runs     int
	Values   int
	Shortest int
	Longest  int
}

// AvgRunLength returns the mean run length, or 0 before any run.
func (s Stats) AvgRunLength() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.Values) / float64(s.Runs)
}

// New creates a builder for ordered values.
func New[T cmp.Ordered](budget int) (*Builder[T], error) {
	return NewFunc(budget, cmp.Compare[T])
}

// NewFunc creates a builder ordering values with compare.
func NewFunc[T any](budget int, compare func(a, b T) int) (*Builder[T], error) {
	if budget < 1 {
		return nil, errors.NewInvalidValue(errors.ErrInvalidMemoryBudget, "memory_budget", budget, "must be at least 1")
	}
	if compare == nil {
		return nil, errors.NewMissingField("compare")
	}
	return &Builder[T]{budget: budget, compare: compare}, nil
}

// Budget returns the memory budget M.
func (b *Builder[T]) Budget() int {
	return b.budget
}

// Stats returns the counters accumulated so far.
func (b *Builder[T]) Stats() Stats {
	return b.stats
}

// Build splits data into ascending runs. data is not modified.
func (b *Builder[T]) Build(data []T) []tape.Run[T] {
	if len(data) == 0 {
		return nil
	}

	h := &selectionHeap[T]{compare: b.compare}
	next := 0
	for next < len(data) && len(h.items) < b.budget {
		h.items = append(h.items, tagged[T]{value: data[next]})
		next++
	}
	heap.Init(h)

	var (
		out     []tape.Run[T]
		current int
		run     tape.Run[T]
	)
	for h.Len() > 0 {
		top := heap.Pop(h).(tagged[T])
		if top.run != current {
			out = append(out, run)
			b.record(len(run))
			run = make(tape.Run[T], 0, 2*b.budget)
			current = top.run
		}
		run = append(run, top.value)

		if next < len(data) {
			v := data[next]
			next++
			tag := current
			if b.compare(v, top.value) < 0 {
				tag = current + 1
			}
			heap.Push(h, tagged[T]{value: v, run: tag})
		}
	}
	out = append(out, run)
	b.record(len(run))

	return out
}

func (b *Builder[T]) record(n int) {
	if b.stats.Runs == 0 || n < b.stats.Shortest {
		b.stats.Shortest = n
	}
	if n > b.stats.Longest {
		b.stats.Longest = n
	}
	b.stats.Runs++
	b.stats.Values += n
}

// Form builds runs from data and distributes them over dst.
// Returns the number of runs formed.
func (b *Builder[T]) Form(data []T, dst tape.FileSet[T]) int {
	built := b.Build(data)
	Distribute(built, dst)
	return len(built)
}

// Distribute appends each run to the file of dst currently holding the
// fewest runs, lowest index first on ties. Run counts across dst stay within
// one of each other when dst starts empty.
func Distribute[T any](built []tape.Run[T], dst tape.FileSet[T]) {
	if len(dst) == 0 {
		return
	}
	for _, r := range built {
		dst[dst.Fewest()].Append(r)
	}
}

// tagged is a buffered value and the run it was assigned to.
type tagged[T any] struct {
	value T
	run   int
}

// selectionHeap orders buffered values by run, then by value.
type selectionHeap[T any] struct {
	items   []tagged[T]
	compare func(a, b T) int
}

func (h *selectionHeap[T]) Len() int { return len(h.items) }

func (h *selectionHeap[T]) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.run != b.run {
		return a.run < b.run
	}
	return h.compare(a.value, b.value) < 0
}

func (h *selectionHeap[T]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *selectionHeap[T]) Push(x any) { h.items = append(h.items, x.(tagged[T])) }

func (h *selectionHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}
