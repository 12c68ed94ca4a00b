// Package merge implements the two primitives every merge strategy shares:
// a k-way selector that yields the minimum across a group of runs, and a
// round-robin writer that places merged runs on destination files.
package merge

import (
	"cmp"
	"container/heap"

	"github.com/xtxerr/extsort/internal/tape"
)

// Marked is the head of one source in a merge group.
// An exhausted entry orders after every live entry.
type Marked[T any] struct {
	Value     T
	Source    int
	Exhausted bool
}

// Selector performs k-way selection over one group of runs at a time.
//
// The heap holds exactly one entry per source. When a source runs dry its
// entry stays in the heap marked exhausted, so the group is finished when
// the top of the heap is exhausted.
type Selector[T any] struct {
	h    markedHeap[T]
	runs []tape.Run[T]
	pos  []int

	reads int
}

// NewSelector creates a selector for ordered values.
func NewSelector[T cmp.Ordered]() *Selector[T] {
	return NewSelectorFunc(cmp.Compare[T])
}

// NewSelectorFunc creates a selector ordering values with compare.
func NewSelectorFunc[T any](compare func(a, b T) int) *Selector[T] {
	return &Selector[T]{h: markedHeap[T]{compare: compare}}
}

// Reset discards the current group and starts a new one from the heads of
// runs. Empty runs enter already exhausted.
func (s *Selector[T]) Reset(runs []tape.Run[T]) {
	s.runs = runs
	if cap(s.pos) < len(runs) {
		s.pos = make([]int, len(runs))
	}
	s.pos = s.pos[:len(runs)]
	s.h.items = s.h.items[:0]

	for i, r := range runs {
		s.pos[i] = 0
		if len(r) == 0 {
			s.h.items = append(s.h.items, Marked[T]{Source: i, Exhausted: true})
			continue
		}
		s.h.items = append(s.h.items, Marked[T]{Value: r[0], Source: i})
	}
	heap.Init(&s.h)
}

// Next returns the smallest remaining value of the group.
// Returns false when every source is exhausted.
func (s *Selector[T]) Next() (T, bool) {
	if len(s.h.items) == 0 || s.h.items[0].Exhausted {
		var zero T
		return zero, false
	}

	top := &s.h.items[0]
	v := top.Value
	s.reads++

	src := top.Source
	s.pos[src]++
	if s.pos[src] < len(s.runs[src]) {
		top.Value = s.runs[src][s.pos[src]]
	} else {
		var zero T
		top.Value = zero
		top.Exhausted = true
	}
	heap.Fix(&s.h, 0)

	return v, true
}

// Merge drains runs into a single ascending run.
func (s *Selector[T]) Merge(runs []tape.Run[T]) tape.Run[T] {
	n := 0
	for _, r := range runs {
		n += len(r)
	}
	out := make(tape.Run[T], 0, n)

	s.Reset(runs)
	for {
		v, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

// Reads returns the number of values selected since the selector was created.
func (s *Selector[T]) Reads() int {
	return s.reads
}

// markedHeap implements heap.Interface over source heads.
type markedHeap[T any] struct {
	items   []Marked[T]
	compare func(a, b T) int
}

func (h *markedHeap[T]) Len() int { return len(h.items) }

func (h *markedHeap[T]) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.Exhausted || b.Exhausted {
		return !a.Exhausted
	}
	if c := h.compare(a.Value, b.Value); c != 0 {
		return c < 0
	}
	return a.Source < b.Source
}

func (h *markedHeap[T]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *markedHeap[T]) Push(x any) { h.items = append(h.items, x.(Marked[T])) }

func (h *markedHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}
