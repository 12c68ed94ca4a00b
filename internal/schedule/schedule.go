// Package schedule computes ideal run distributions for the polyphase and
// cascade merges.
//
// Both are tables of levels. Level 0 is a single run on the first working
// file; each following level is the distribution that one merge pass
// reduces to the previous one. A sort starts from the smallest level whose
// total covers the runs it has, padding the difference with dummy runs.
package schedule

import (
	"fmt"

	"github.com/xtxerr/extsort/internal/errors"
)

// Kind selects the recurrence a level table follows.
type Kind int

const (
	KindPolyphase Kind = iota
	KindCascade
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindPolyphase:
		return "polyphase"
	case KindCascade:
		return "cascade"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// maxLevel bounds the search. Totals grow at least geometrically for p >= 2,
// so a table this deep exceeds any int run count.
const maxLevel = 200

// Level is one row of an ideal distribution table.
type Level struct {
	Counts []int // runs per working file
	Total  int   // sum of Counts
	Index  int   // 0 for the single-run level
}

// Dummies returns, per file, the runs missing from written to reach the level.
func (l Level) Dummies(written []int) []int {
	out := make([]int, len(l.Counts))
	for i, c := range l.Counts {
		if i < len(written) {
			c -= written[i]
		}
		out[i] = c
	}
	return out
}

// Polyphase returns the smallest generalized Fibonacci level of order p
// whose total is at least runs:
//
//	a'[i]   = a[0] + a[i+1]   for i < p-1
//	a'[p-1] = a[0]
func Polyphase(p, runs int) (Level, error) {
	return search(KindPolyphase, p, runs)
}

// Cascade returns the smallest cascade level for p working files whose
// total is at least runs. Each count of the next level is a prefix sum of
// the current one, longest prefix first.
func Cascade(p, runs int) (Level, error) {
	return search(KindCascade, p, runs)
}

// Levels returns the first n levels of a table, for inspection and tests.
func Levels(kind Kind, p, n int) ([]Level, error) {
	if err := checkOrder(p); err != nil {
		return nil, err
	}
	out := make([]Level, 0, n)
	l := first(p)
	for i := 0; i < n; i++ {
		out = append(out, l)
		l = next(kind, l)
	}
	return out, nil
}

func search(kind Kind, p, runs int) (Level, error) {
	if err := checkOrder(p); err != nil {
		return Level{}, err
	}

	l := first(p)
	for l.Total < runs {
		if l.Index >= maxLevel {
			return Level{}, errors.NewIntegrity("%s schedule of order %d never reaches %d runs", kind, p, runs)
		}
		grown := next(kind, l)
		if grown.Total <= l.Total {
			return Level{}, errors.NewIntegrity("%s schedule of order %d does not grow past %d runs", kind, p, l.Total)
		}
		l = grown
	}
	return l, nil
}

func checkOrder(p int) error {
	if p < 1 {
		return errors.NewInvalidValue(errors.ErrInvalidFileCount, "working files", p, "must be at least 1")
	}
	return nil
}

func first(p int) Level {
	counts := make([]int, p)
	counts[0] = 1
	return Level{Counts: counts, Total: 1}
}

func next(kind Kind, l Level) Level {
	p := len(l.Counts)
	counts := make([]int, p)

	switch kind {
	case KindPolyphase:
		a0 := l.Counts[0]
		for i := 0; i < p-1; i++ {
			counts[i] = a0 + l.Counts[i+1]
		}
		counts[p-1] = a0
	case KindCascade:
		sum := 0
		for _, c := range l.Counts {
			sum += c
		}
		for i := 0; i < p; i++ {
			counts[i] = sum
			sum -= l.Counts[p-1-i]
		}
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	return Level{Counts: counts, Total: total, Index: l.Index + 1}
}
