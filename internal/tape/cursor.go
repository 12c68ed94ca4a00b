package tape

// Cursor walks a FileSet one aligned run group at a time: group g is the
// g-th run of every file that still has one. Files are read in place; the
// cursor never consumes runs.
//
// The position inside a run is owned by whoever merges the group.
type Cursor[T any] struct {
	files     FileSet[T]
	run       []int // next run index per file
	exhausted int   // files with no run left
}

// NewCursor creates a cursor positioned on the first run group.
func NewCursor[T any](files FileSet[T]) *Cursor[T] {
	c := &Cursor[T]{
		files: files,
		run:   make([]int, len(files)),
	}
	for _, f := range files {
		if f.Empty() {
			c.exhausted++
		}
	}
	return c
}

// Done returns true once every file has been exhausted.
func (c *Cursor[T]) Done() bool {
	return c.exhausted == len(c.files)
}

// Group returns the runs of the current group, in file order, skipping
// exhausted files. The returned runs alias the files' storage.
func (c *Cursor[T]) Group() []Run[T] {
	group := make([]Run[T], 0, len(c.files)-c.exhausted)
	for i, f := range c.files {
		if c.run[i] < f.Len() {
			group = append(group, f.Run(c.run[i]))
		}
	}
	return group
}

// Advance moves every non-exhausted file to its next run.
func (c *Cursor[T]) Advance() {
	for i, f := range c.files {
		if c.run[i] >= f.Len() {
			continue
		}
		c.run[i]++
		if c.run[i] == f.Len() {
			c.exhausted++
		}
	}
}
