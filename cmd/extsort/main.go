// extsort sorts integers with a simulated external merge sort.
//
// Input is "MODE m k r n v1 ... vn" on stdin, where MODE is B, P or C.
// The sorted values are printed on one line. With stdin on a terminal
// extsort starts an interactive prompt instead.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/xtxerr/extsort/internal/config"
	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/logging"
	"github.com/xtxerr/extsort/internal/report"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// CLI flags
	cfgPath := flag.String("config", "", "config file path")
	verbose := flag.Bool("verbose", false, "print a table per merge phase")
	journalPath := flag.String("journal", "", "write protobuf phase frames to this file")
	jsonLogs := flag.Bool("json-logs", false, "log as JSON")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	// Load config
	cfg := config.DefaultConfig()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "extsort: %v\n", err)
			return errors.ExitCode(err)
		}
		cfg = loaded
	}

	// CLI overrides
	if *verbose {
		cfg.Report.Verbose = true
	}
	if *journalPath != "" {
		cfg.Report.Journal = *journalPath
	}
	if *jsonLogs {
		cfg.Logging.Format = "json"
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extsort: %v\n", err)
		return errors.ExitUsage
	}
	logging.InitWriter(os.Stderr, level, cfg.Logging.JSON())
	logging.Debug("extsort starting", "version", Version)

	d := newDriver(os.Stdout)
	d.verbose = cfg.Report.Verbose
	d.maxRunValues = cfg.Report.MaxRunValues

	if cfg.Report.Journal != "" {
		f, err := os.Create(cfg.Report.Journal)
		if err != nil {
			logging.Error("create journal", "path", cfg.Report.Journal, "error", err)
			return errors.ExitFailure
		}
		defer f.Close()
		d.journal = report.NewJournal[int](f)
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		r := &repl{d: d, defaults: cfg.Sort}
		r.run()
		return errors.ExitOK
	}

	fields, err := readFields(os.Stdin)
	if err == nil {
		var req Request
		req, err = ParseRequest(fields, cfg.Sort)
		if err == nil {
			err = d.process(req)
		}
	}
	if err != nil {
		logging.Error("sort failed", "error", err)
		return errors.ExitCode(err)
	}

	if d.journal != nil {
		logging.Info("journal written", "path", cfg.Report.Journal, "frames", d.journal.Frames())
	}
	return errors.ExitOK
}
