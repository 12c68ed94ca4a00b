package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/xtxerr/extsort/internal/config"
	"github.com/xtxerr/extsort/internal/logging"
	"github.com/xtxerr/extsort/internal/stats"
	"github.com/xtxerr/extsort/internal/stats/export"
	"github.com/xtxerr/extsort/internal/stats/query"
)

// runner runs the configured sweeps and prints their summaries.
type runner struct {
	cfg *config.Config
	out io.Writer

	skipAlpha bool
	skipBeta  bool
}

func (r *runner) run(ctx context.Context) error {
	opts, err := r.cfg.Export.Options()
	if err != nil {
		return err
	}

	svc, err := query.New(r.cfg.Export.MemoryLimit)
	if err != nil {
		return err
	}
	defer svc.Close()

	if !r.skipAlpha {
		if err := r.alpha(ctx, svc, opts); err != nil {
			return err
		}
	}
	if !r.skipBeta {
		if err := r.beta(ctx, svc, opts); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) alpha(ctx context.Context, svc *query.Service, opts export.Options) error {
	cfg, err := r.cfg.Sweep.AlphaConfig()
	if err != nil {
		return err
	}

	start := time.Now()
	rows, err := stats.AlphaSweep(ctx, cfg)
	if err != nil {
		return fmt.Errorf("alpha sweep: %w", err)
	}

	path := r.cfg.Export.AlphaPath()
	if err := export.WriteAlpha(path, rows, opts); err != nil {
		return fmt.Errorf("write alpha: %w", err)
	}
	logging.Info("alpha rows written", "path", path, "rows", len(rows), "elapsed", time.Since(start))

	summary, err := svc.AlphaSummary(ctx, path)
	if err != nil {
		return err
	}
	printAlpha(r.out, summary)
	return nil
}

func (r *runner) beta(ctx context.Context, svc *query.Service, opts export.Options) error {
	start := time.Now()
	lengths := stats.NewRunLengthAggregate()
	rows, err := stats.BetaSweep(ctx, r.cfg.Sweep.BetaConfig(), lengths)
	if err != nil {
		return fmt.Errorf("beta sweep: %w", err)
	}

	path := r.cfg.Export.BetaPath()
	if err := export.WriteBeta(path, rows, opts); err != nil {
		return fmt.Errorf("write beta: %w", err)
	}
	logging.Info("beta rows written", "path", path, "rows", len(rows), "elapsed", time.Since(start))

	summary, err := svc.BetaSummary(ctx, path)
	if err != nil {
		return err
	}
	printBeta(r.out, summary, lengths.Result())
	return nil
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

func printAlpha(w io.Writer, rows []query.AlphaSummary) {
	fmt.Fprintln(w, "alpha: merge writes per value")

	table := newTable(w, []string{"Strategy", "Runs", "Reps", "Mean", "Min", "Max", "Phases", "Dummies"})
	for _, r := range rows {
		table.Append([]string{
			r.Strategy,
			strconv.FormatInt(r.Runs, 10),
			strconv.FormatInt(r.Repetitions, 10),
			formatFloat(r.MeanAlpha),
			formatFloat(r.MinAlpha),
			formatFloat(r.MaxAlpha),
			formatFloat(r.MeanPhases),
			formatFloat(r.MeanDummies),
		})
	}
	table.Render()
}

func printBeta(w io.Writer, rows []query.BetaSummary, lengths stats.RunLengthResult) {
	fmt.Fprintln(w, "beta: mean run length / M")

	table := newTable(w, []string{"M", "Reps", "Mean", "Min", "Max", "Runs"})
	for _, r := range rows {
		table.Append([]string{
			strconv.FormatInt(r.Budget, 10),
			strconv.FormatInt(r.Repetitions, 10),
			formatFloat(r.MeanBeta),
			formatFloat(r.MinBeta),
			formatFloat(r.MaxBeta),
			strconv.FormatInt(r.TotalRuns, 10),
		})
	}
	table.Render()

	fmt.Fprintf(w, "run lengths over all budgets: %d runs, mean %.2f, p50 %.1f, p90 %.1f, p99 %.1f, max %.0f\n",
		lengths.Count, lengths.Mean, lengths.P50, lengths.P90, lengths.P99, lengths.Max)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
