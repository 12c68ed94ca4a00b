package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
)

// TextReporter renders each snapshot as a table: one row per file with its
// dummy count and runs, followed by the phase ratio.
type TextReporter[T any] struct {
	w  io.Writer
	mu sync.Mutex

	// MaxRunValues caps the values printed per run; zero prints all.
	MaxRunValues int
}

// NewTextReporter creates a reporter writing to w.
func NewTextReporter[T any](w io.Writer) *TextReporter[T] {
	return &TextReporter[T]{w: w}
}

// ObservePhase implements Observer.
func (r *TextReporter[T]) ObservePhase(s Snapshot[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	title := "initial distribution"
	if s.Phase > 0 {
		title = "phase " + strconv.Itoa(s.Phase)
	}
	fmt.Fprintf(r.w, "%s %s: %d runs, %d values, ratio %.4f\n", s.Strategy, title, s.Runs, s.Values, s.Ratio)

	table := tablewriter.NewWriter(r.w)
	table.SetHeader([]string{"File", "Dummies", "Runs"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for i, runs := range s.Files {
		table.Append([]string{
			s.Labels[i],
			strconv.Itoa(s.Dummies[i]),
			r.formatRuns(runs),
		})
	}
	table.Render()
}

func (r *TextReporter[T]) formatRuns(runs [][]T) string {
	if len(runs) == 0 {
		return "-"
	}
	parts := make([]string, len(runs))
	for i, run := range runs {
		if r.MaxRunValues > 0 && len(run) > r.MaxRunValues {
			parts[i] = fmt.Sprintf("%v...(%d)", run[:r.MaxRunValues], len(run))
			continue
		}
		parts[i] = fmt.Sprint(run)
	}
	return strings.Join(parts, " ")
}
