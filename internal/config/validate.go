package config

import (
	"fmt"

	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/logging"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	// Sort
	if err := c.Sort.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sort: %w", err))
	}

	// Report
	if err := c.Report.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("report: %w", err))
	}

	// Sweep
	if err := c.Sweep.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sweep: %w", err))
	}

	// Export
	if err := c.Export.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("export: %w", err))
	}

	// Logging
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the sort configuration.
func (c *SortConfig) Validate() error {
	s, err := c.ParsedStrategy()
	if err != nil {
		return err
	}
	return c.SorterConfig().Validate(s)
}

// Validate checks the report configuration.
func (c *ReportConfig) Validate() error {
	if c.MaxRunValues < 0 {
		return errors.NewValidation("max_run_values", "must not be negative")
	}
	return nil
}

// Validate checks the sweep configuration.
func (c *SweepConfig) Validate() error {
	var errs []error

	alpha, err := c.AlphaConfig()
	if err != nil {
		errs = append(errs, err)
	} else if err := alpha.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("alpha: %w", err))
	}

	if err := c.BetaConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("beta: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the export configuration.
func (c *ExportConfig) Validate() error {
	var errs []error

	if c.Dir == "" {
		errs = append(errs, errors.NewMissingField("dir"))
	}
	if _, err := c.Options(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the logging configuration.
func (c *LoggingConfig) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.Level); err != nil {
		errs = append(errs, errors.NewValidation("level", err.Error()))
	}
	switch c.Format {
	case "text", "json", "":
	default:
		errs = append(errs, errors.NewValidation("format", "must be text or json"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// JSON reports whether logs are written as JSON.
func (c *LoggingConfig) JSON() bool {
	return c.Format == "json"
}
