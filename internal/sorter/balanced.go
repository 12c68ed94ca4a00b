package sorter

import (
	"strconv"

	"github.com/xtxerr/extsort/internal/merge"
	"github.com/xtxerr/extsort/internal/runs"
	"github.com/xtxerr/extsort/internal/tape"
)

// balanced merges between two sides of ⌈k/2⌉ files each. A pass merges
// every aligned run group of the source side into the destination side,
// placing the results round-robin; then the sides swap.
func (e *engine[T]) balanced(built []tape.Run[T]) (tape.FileSet[T], error) {
	half := (e.cfg.FileCount + 1) / 2
	left := tape.NewFileSet[T](half)
	right := tape.NewFileSet[T](half)
	runs.Distribute(built, left)

	if len(built) == 0 {
		return left, nil
	}

	// Snapshots always list L before R, whichever side is the source.
	all := append(append(tape.FileSet[T]{}, left...), right...)
	labels := make([]string, 0, 2*half)
	for i := 0; i < half; i++ {
		labels = append(labels, "L"+strconv.Itoa(i))
	}
	for i := 0; i < half; i++ {
		labels = append(labels, "R"+strconv.Itoa(i))
	}

	if err := e.observe(0, labels, all, nil); err != nil {
		return nil, err
	}

	src, dst := left, right
	for phase := 1; src.RunCount() > 1; phase++ {
		if len(src) == 1 {
			e.pairwise(src[0], dst[0])
		} else {
			w := merge.NewWriter(dst)
			for c := tape.NewCursor(src); !c.Done(); c.Advance() {
				if err := w.Write(e.mergeGroup(c.Group())); err != nil {
					return nil, err
				}
			}
			src.Clear()
		}

		e.stats.Phases++
		if err := e.observe(phase, labels, all, nil); err != nil {
			return nil, err
		}
		src, dst = dst, src
	}

	return src, nil
}

// pairwise merges consecutive pairs of runs from src into dst. It is the
// pass used when a side has a single file: a one-way merge would only copy.
// An odd last run is copied.
func (e *engine[T]) pairwise(src, dst *tape.File[T]) {
	for !src.Empty() {
		a, _ := src.PopFront()
		b, ok := src.PopFront()
		if !ok {
			dst.Append(e.mergeGroup([]tape.Run[T]{a}))
			return
		}
		dst.Append(e.mergeGroup([]tape.Run[T]{a, b}))
	}
}
