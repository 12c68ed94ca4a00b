package sorter

import (
	"strconv"

	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/merge"
	"github.com/xtxerr/extsort/internal/schedule"
	"github.com/xtxerr/extsort/internal/tape"
)

// distribute writes built onto the first k-1 files with the level's counts
// as quotas, and returns the per-file dummy counts for all k files.
func (e *engine[T]) distribute(files tape.FileSet[T], built []tape.Run[T], level schedule.Level) ([]int, error) {
	working := files[:len(files)-1]
	w, err := merge.NewQuotaWriter(working, level.Counts)
	if err != nil {
		return nil, err
	}
	for _, r := range built {
		if err := w.Write(r); err != nil {
			return nil, errors.NewIntegrity("level %v cannot hold %d runs: %v", level.Counts, len(built), err)
		}
	}

	dummies := make([]int, len(files))
	copy(dummies, w.Remaining())
	for _, d := range dummies {
		e.stats.Dummies += d
	}
	return dummies, nil
}

// step merges one run from every source into target. Dummies are consumed
// before real runs; a step drawing only dummies leaves a dummy on target.
func (e *engine[T]) step(files tape.FileSet[T], dummies []int, sources []int, target int, group []tape.Run[T]) []tape.Run[T] {
	group = group[:0]
	for _, i := range sources {
		if dummies[i] > 0 {
			dummies[i]--
			continue
		}
		if r, ok := files[i].PopFront(); ok {
			group = append(group, r)
		}
	}
	if len(group) == 0 {
		dummies[target]++
		return group
	}
	files[target].Append(e.mergeGroup(group))
	return group
}

// polyphase keeps k-1 working files and one empty output file. The runs
// start on a generalized Fibonacci level, so each phase empties exactly
// one working file, which becomes the output of the next phase.
func (e *engine[T]) polyphase(built []tape.Run[T]) (tape.FileSet[T], error) {
	k := e.cfg.FileCount
	files := tape.NewFileSet[T](k)
	if len(built) == 0 {
		return files, nil
	}

	level, err := e.schedules.Polyphase(k-1, len(built))
	if err != nil {
		return nil, err
	}
	dummies, err := e.distribute(files, built, level)
	if err != nil {
		return nil, err
	}

	out := k - 1
	if err := e.observe(0, fileLabels(k, out), files, dummies); err != nil {
		return nil, err
	}

	var group []tape.Run[T]
	for phase := 1; remaining(files, dummies) > 1; phase++ {
		var sources []int
		steps := 0
		for i := range files {
			if i == out {
				continue
			}
			if n := files[i].Len() + dummies[i]; n > 0 {
				if len(sources) == 0 || n < steps {
					steps = n
				}
				sources = append(sources, i)
			}
		}
		if len(sources) < 2 {
			return nil, errors.NewIntegrity("polyphase phase %d has %d source files", phase, len(sources))
		}

		for s := 0; s < steps; s++ {
			group = e.step(files, dummies, sources, out, group)
		}
		e.stats.Phases++

		for _, i := range sources {
			if files[i].Len()+dummies[i] == 0 {
				out = i
				break
			}
		}
		if err := e.observe(phase, fileLabels(k, out), files, dummies); err != nil {
			return nil, err
		}
	}

	return files, nil
}

// remaining returns runs plus dummies across files.
func remaining[T any](files tape.FileSet[T], dummies []int) int {
	n := files.RunCount()
	for _, d := range dummies {
		n += d
	}
	return n
}

// fileLabels names files F0..Fk-1 and marks the output file.
func fileLabels(k, target int) []string {
	labels := make([]string, k)
	for i := range labels {
		labels[i] = "F" + strconv.Itoa(i)
		if i == target {
			labels[i] += "*"
		}
	}
	return labels
}
