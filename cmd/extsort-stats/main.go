// extsort-stats runs the alpha and beta sweeps, writes them to Parquet and
// prints per-point summaries computed with DuckDB.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/xtxerr/extsort/internal/config"
	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// CLI flags
	cfgPath := flag.String("config", "", "config file path")
	outDir := flag.String("out", "", "output directory (overrides config)")
	seed := flag.Uint64("seed", 0, "sweep seed (overrides config)")
	workers := flag.Int("workers", -1, "parallel repetitions, 0 for GOMAXPROCS (overrides config)")
	skipAlpha := flag.Bool("skip-alpha", false, "skip the alpha sweep")
	skipBeta := flag.Bool("skip-beta", false, "skip the beta sweep")
	jsonLogs := flag.Bool("json-logs", false, "log as JSON")
	logLevel := flag.String("log-level", "", "log level (overrides config)")
	flag.Parse()

	// Load config
	cfg := config.DefaultConfig()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "extsort-stats: %v\n", err)
			return errors.ExitCode(err)
		}
		cfg = loaded
	}

	// CLI overrides
	if *outDir != "" {
		cfg.Export.Dir = *outDir
	}
	if *seed != 0 {
		cfg.Sweep.Seed = *seed
	}
	if *workers >= 0 {
		cfg.Sweep.Workers = *workers
	}
	if *jsonLogs {
		cfg.Logging.Format = "json"
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "extsort-stats: %v\n", err)
		return errors.ExitCode(err)
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logging.InitWriter(os.Stderr, level, cfg.Logging.JSON())
	logging.Info("extsort-stats starting", "version", Version, "out", cfg.Export.Dir, "seed", cfg.Sweep.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := &runner{
		cfg:       cfg,
		out:       os.Stdout,
		skipAlpha: *skipAlpha,
		skipBeta:  *skipBeta,
	}
	if err := r.run(ctx); err != nil {
		logging.Error("sweep failed", "error", err)
		return errors.ExitCode(err)
	}
	return errors.ExitOK
}
