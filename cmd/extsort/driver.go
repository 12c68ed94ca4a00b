package main

import (
	"bufio"
	"io"
	"log/slog"
	"strconv"

	"github.com/xtxerr/extsort/internal/logging"
	"github.com/xtxerr/extsort/internal/report"
	"github.com/xtxerr/extsort/internal/sorter"
)

// driver sorts requests and prints results to out.
type driver struct {
	out io.Writer
	log *slog.Logger

	verbose      bool
	maxRunValues int
	journal      *report.Journal[int]
}

func newDriver(out io.Writer) *driver {
	return &driver{
		out: out,
		log: logging.Component("extsort"),
	}
}

func (d *driver) observer() report.Observer[int] {
	var m report.Multi[int]
	if d.verbose {
		text := report.NewTextReporter[int](d.out)
		text.MaxRunValues = d.maxRunValues
		m = append(m, text)
	}
	if d.journal != nil {
		m = append(m, d.journal)
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// process sorts req and prints the sorted values on one line.
func (d *driver) process(req Request) error {
	var opts []sorter.Option[int]
	if o := d.observer(); o != nil {
		opts = append(opts, sorter.WithObserver[int](o))
	}

	s, err := sorter.New[int](req.Strategy, req.Config, opts...)
	if err != nil {
		return err
	}

	sorted, err := s.Sort(req.Values)
	if err != nil {
		return err
	}

	st := s.Stats()
	if req.ExpectedRuns >= 0 && req.ExpectedRuns != st.Runs {
		d.log.Info("formed run count differs from expected",
			"expected", req.ExpectedRuns,
			"formed", st.Runs)
	}
	d.log.Info("sort complete",
		"strategy", req.Strategy.String(),
		"file_count", req.Config.FileCount,
		"memory_budget", req.Config.MemoryBudget,
		"values", st.Values,
		"runs", st.Runs,
		"phases", st.Phases,
		"dummies", st.Dummies,
		"writes_per_value", st.WritesPerValue())

	if d.journal != nil {
		if err := d.journal.Err(); err != nil {
			return err
		}
	}

	return writeValues(d.out, sorted)
}

func writeValues(w io.Writer, values []int) error {
	bw := bufio.NewWriter(w)
	for i, v := range values {
		if i > 0 {
			bw.WriteByte(' ')
		}
		bw.WriteString(strconv.Itoa(v))
	}
	bw.WriteByte('\n')
	return bw.Flush()
}
