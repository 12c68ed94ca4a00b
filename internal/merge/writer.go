package merge

import (
	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/tape"
)

// Writer appends runs to destination files in rotation.
//
// With quotas, a file that has received its quota is skipped. Counts refer
// to runs written through this writer, not to runs the file held before.
type Writer[T any] struct {
	dst     tape.FileSet[T]
	quotas  []int
	written []int
	next    int

	values int
}

// NewWriter creates a writer rotating over every file of dst.
func NewWriter[T any](dst tape.FileSet[T]) *Writer[T] {
	return &Writer[T]{
		dst:     dst,
		written: make([]int, len(dst)),
	}
}

// NewQuotaWriter creates a writer that places at most quotas[i] runs on
// file i. Returns an error if quotas and dst differ in length.
func NewQuotaWriter[T any](dst tape.FileSet[T], quotas []int) (*Writer[T], error) {
	if len(quotas) != len(dst) {
		return nil, errors.NewIntegrity("%d quotas for %d destination files", len(quotas), len(dst))
	}
	w := NewWriter(dst)
	w.quotas = append([]int(nil), quotas...)
	return w, nil
}

// Write appends r to the file designated next, then moves the designation
// to the following file with quota left.
func (w *Writer[T]) Write(r tape.Run[T]) error {
	i, ok := w.seek(w.next)
	if !ok {
		return errors.ErrQuotaExhausted
	}
	w.dst[i].Append(r)
	w.written[i]++
	w.values += len(r)

	w.next = (i + 1) % len(w.dst)
	return nil
}

// Next returns the index of the file the next Write goes to, or -1 if every
// file is at quota.
func (w *Writer[T]) Next() int {
	i, ok := w.seek(w.next)
	if !ok {
		return -1
	}
	return i
}

// Remaining returns, per file, how many runs are still owed to reach its
// quota. Nil for a writer without quotas.
func (w *Writer[T]) Remaining() []int {
	if w.quotas == nil {
		return nil
	}
	out := make([]int, len(w.quotas))
	for i, q := range w.quotas {
		out[i] = q - w.written[i]
	}
	return out
}

// Written returns the number of runs written to each file.
func (w *Writer[T]) Written() []int {
	return append([]int(nil), w.written...)
}

// Values returns the number of values written.
func (w *Writer[T]) Values() int {
	return w.values
}

func (w *Writer[T]) seek(from int) (int, bool) {
	n := len(w.dst)
	for step := 0; step < n; step++ {
		i := (from + step) % n
		if w.quotas == nil || w.written[i] < w.quotas[i] {
			return i, true
		}
	}
	return 0, false
}
