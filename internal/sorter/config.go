package sorter

import (
	"fmt"
	"strings"

	"github.com/xtxerr/extsort/config"
	"github.com/xtxerr/extsort/internal/errors"
)

// Strategy selects a merge engine.
type Strategy int

const (
	Balanced Strategy = iota
	Polyphase
	Cascade
)

// Strategies lists every strategy in driver order.
var Strategies = []Strategy{Balanced, Polyphase, Cascade}

// ParseStrategy accepts a mode letter (B, P, C) or a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "balanced":
		return Balanced, nil
	case "p", "polyphase", "polyphasic":
		return Polyphase, nil
	case "c", "cascade":
		return Cascade, nil
	default:
		return 0, errors.NewInvalidValue(errors.ErrInvalidStrategy, "strategy", s, "expected B, P, C or a strategy name")
	}
}

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case Balanced:
		return "balanced"
	case Polyphase:
		return "polyphase"
	case Cascade:
		return "cascade"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Letter returns the driver mode letter.
func (s Strategy) Letter() string {
	switch s {
	case Balanced:
		return "B"
	case Polyphase:
		return "P"
	case Cascade:
		return "C"
	default:
		return "?"
	}
}

// MinFileCount returns the smallest file count the strategy supports.
func (s Strategy) MinFileCount() int {
	if s == Polyphase {
		return 3
	}
	return 2
}

// Config holds the dimensions of a sort.
type Config struct {
	// FileCount is k, the number of simulated files.
	FileCount int

	// MemoryBudget is M, the number of values buffered during run formation.
	MemoryBudget int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		FileCount:    config.DefaultFileCount,
		MemoryBudget: config.DefaultMemoryBudget,
	}
}

// Validate checks the configuration against the strategy's minimums.
func (c Config) Validate(s Strategy) error {
	errs := errors.NewValidationErrors()

	switch s {
	case Balanced, Polyphase, Cascade:
	default:
		errs.Add(errors.NewInvalidValue(errors.ErrInvalidStrategy, "strategy", int(s), "unknown strategy"))
	}
	if need := s.MinFileCount(); c.FileCount < need {
		errs.Add(errors.NewInvalidValue(errors.ErrInvalidFileCount, "file_count", c.FileCount,
			fmt.Sprintf("%s needs at least %d files", s, need)))
	}
	if c.MemoryBudget < 1 {
		errs.Add(errors.NewInvalidValue(errors.ErrInvalidMemoryBudget, "memory_budget", c.MemoryBudget, "must be at least 1"))
	}

	return errs.Err()
}
