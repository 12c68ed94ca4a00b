package sorter

import (
	"cmp"
	"slices"

	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/tape"
)

// cascade keeps k-1 working files and one empty target. A pass merges all
// working files into the target until the shortest one empties, then merges
// the rest into the file that just emptied, one file fewer each time. A
// window of one file would only copy its runs, so the pass stops there.
//
// With k=2 there is a single working file and the pass degenerates to the
// pairwise merge of the balanced strategy.
func (e *engine[T]) cascade(built []tape.Run[T]) (tape.FileSet[T], error) {
	k := e.cfg.FileCount
	if k == 2 {
		return e.balanced(built)
	}

	files := tape.NewFileSet[T](k)
	if len(built) == 0 {
		return files, nil
	}

	level, err := e.schedules.Cascade(k-1, len(built))
	if err != nil {
		return nil, err
	}
	dummies, err := e.distribute(files, built, level)
	if err != nil {
		return nil, err
	}

	target := k - 1
	if err := e.observe(0, fileLabels(k, target), files, dummies); err != nil {
		return nil, err
	}

	count := func(i int) int { return files[i].Len() + dummies[i] }

	var group []tape.Run[T]
	phase := 0
	for remaining(files, dummies) > 1 {
		var window []int
		for i := range files {
			if i != target && count(i) > 0 {
				window = append(window, i)
			}
		}
		slices.SortStableFunc(window, func(a, b int) int {
			return cmp.Compare(count(a), count(b))
		})
		if len(window) < 2 {
			return nil, errors.NewIntegrity("cascade pass has %d source files", len(window))
		}

		for len(window) >= 2 && remaining(files, dummies) > 1 {
			steps := count(window[0])
			for s := 0; s < steps; s++ {
				group = e.step(files, dummies, window, target, group)
			}
			phase++
			e.stats.Phases++

			target = window[0]
			window = slices.DeleteFunc(window, func(i int) bool { return count(i) == 0 })

			if err := e.observe(phase, fileLabels(k, target), files, dummies); err != nil {
				return nil, err
			}
		}
	}

	return files, nil
}
