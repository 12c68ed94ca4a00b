// Package tape models the simulated storage files an external sort works on.
//
// A File is an ordered queue of Runs; a FileSet is a fixed number of Files.
// Nothing here touches the file system: the structures are resident and the
// sorter only counts the values it moves between them.
package tape

import "fmt"

// Run is an ascending sequence of values forming one mergeable unit.
type Run[T any] []T

// File is one simulated storage unit: runs are appended at the back and
// consumed from the front.
type File[T any] struct {
	runs []Run[T]
}

// NewFile creates a file holding the given runs.
func NewFile[T any](runs ...Run[T]) *File[T] {
	return &File[T]{runs: runs}
}

// Len returns the number of runs in the file.
func (f *File[T]) Len() int {
	return len(f.runs)
}

// Empty returns true if the file holds no runs.
func (f *File[T]) Empty() bool {
	return len(f.runs) == 0
}

// Append adds a run at the back of the file.
func (f *File[T]) Append(r Run[T]) {
	f.runs = append(f.runs, r)
}

// Run returns the i-th run without consuming it.
func (f *File[T]) Run(i int) Run[T] {
	return f.runs[i]
}

// Runs returns the runs currently held. The slice is shared with the file.
func (f *File[T]) Runs() []Run[T] {
	return f.runs
}

// PopFront removes and returns the first run.
// Returns false if the file is empty.
func (f *File[T]) PopFront() (Run[T], bool) {
	if len(f.runs) == 0 {
		return nil, false
	}
	r := f.runs[0]
	f.runs[0] = nil
	f.runs = f.runs[1:]
	return r, true
}

// Clear drops all runs.
func (f *File[T]) Clear() {
	f.runs = nil
}

// Values returns the number of values across all runs.
func (f *File[T]) Values() int {
	n := 0
	for _, r := range f.runs {
		n += len(r)
	}
	return n
}

// FileSet is a fixed-size indexed collection of files.
type FileSet[T any] []*File[T]

// NewFileSet creates n empty files.
func NewFileSet[T any](n int) FileSet[T] {
	fs := make(FileSet[T], n)
	for i := range fs {
		fs[i] = &File[T]{}
	}
	return fs
}

// RunCount returns the number of runs across all files.
func (fs FileSet[T]) RunCount() int {
	n := 0
	for _, f := range fs {
		n += f.Len()
	}
	return n
}

// ValueCount returns the number of values across all files.
func (fs FileSet[T]) ValueCount() int {
	n := 0
	for _, f := range fs {
		n += f.Values()
	}
	return n
}

// Fewest returns the index of the file holding the fewest runs.
// Ties go to the lowest index.
func (fs FileSet[T]) Fewest() int {
	best := 0
	for i := 1; i < len(fs); i++ {
		if fs[i].Len() < fs[best].Len() {
			best = i
		}
	}
	return best
}

// NonEmpty returns the indexes of files holding at least one run.
func (fs FileSet[T]) NonEmpty() []int {
	idx := make([]int, 0, len(fs))
	for i, f := range fs {
		if !f.Empty() {
			idx = append(idx, i)
		}
	}
	return idx
}

// Clear empties every file.
func (fs FileSet[T]) Clear() {
	for _, f := range fs {
		f.Clear()
	}
}

// Contents returns a deep copy of every file's runs, indexed [file][run][value].
func (fs FileSet[T]) Contents() [][][]T {
	out := make([][][]T, len(fs))
	for i, f := range fs {
		out[i] = make([][]T, len(f.runs))
		for j, r := range f.runs {
			out[i][j] = append([]T(nil), r...)
		}
	}
	return out
}

// Flatten concatenates all runs in file order, then run order.
func (fs FileSet[T]) Flatten() []T {
	out := make([]T, 0, fs.ValueCount())
	for _, f := range fs {
		for _, r := range f.runs {
			out = append(out, r...)
		}
	}
	return out
}

// String implements fmt.Stringer.
func (fs FileSet[T]) String() string {
	return fmt.Sprint(fs.Contents())
}

// Ascending reports whether r is non-decreasing under compare.
func Ascending[T any](r Run[T], compare func(a, b T) int) bool {
	for i := 1; i < len(r); i++ {
		if compare(r[i-1], r[i]) > 0 {
			return false
		}
	}
	return true
}
