package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/xtxerr/extsort/internal/config"
	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/sorter"
)

// Request is one sort read from input.
type Request struct {
	Strategy sorter.Strategy
	Config   sorter.Config

	// ExpectedRuns is the caller's run count estimate, -1 when not given.
	// It is only compared against the formed run count.
	ExpectedRuns int

	Values []int
}

// ParseRequest parses "MODE m k r n v1 ... vn". A request that starts with
// a value instead of a mode sorts the values with the configured defaults.
func ParseRequest(fields []string, defaults config.SortConfig) (Request, error) {
	if len(fields) == 0 {
		return Request{}, errors.Wrap(errors.ErrInvalidInput, "empty request")
	}

	if _, err := strconv.Atoi(fields[0]); err == nil {
		strategy, err := defaults.ParsedStrategy()
		if err != nil {
			return Request{}, err
		}
		values, err := parseValues(fields)
		if err != nil {
			return Request{}, err
		}
		return Request{
			Strategy:     strategy,
			Config:       defaults.SorterConfig(),
			ExpectedRuns: -1,
			Values:       values,
		}, nil
	}

	if len(fields) < 5 {
		return Request{}, fmt.Errorf("%w: expected MODE m k r n, got %d fields", errors.ErrInvalidInput, len(fields))
	}

	strategy, err := sorter.ParseStrategy(fields[0])
	if err != nil {
		return Request{}, err
	}

	var dims [4]int
	for i, name := range []string{"m", "k", "r", "n"} {
		v, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return Request{}, fmt.Errorf("%w: %s %q is not an integer", errors.ErrInvalidInput, name, fields[i+1])
		}
		dims[i] = v
	}
	m, k, r, n := dims[0], dims[1], dims[2], dims[3]

	if n < 0 {
		return Request{}, fmt.Errorf("%w: n must not be negative, got %d", errors.ErrInvalidInput, n)
	}
	if got := len(fields) - 5; got != n {
		return Request{}, fmt.Errorf("%w: expected %d values, got %d", errors.ErrInvalidInput, n, got)
	}

	values, err := parseValues(fields[5:])
	if err != nil {
		return Request{}, err
	}

	req := Request{
		Strategy:     strategy,
		Config:       sorter.Config{FileCount: k, MemoryBudget: m},
		ExpectedRuns: r,
		Values:       values,
	}
	if err := req.Config.Validate(strategy); err != nil {
		return Request{}, err
	}
	return req, nil
}

func parseValues(fields []string) ([]int, error) {
	values := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d %q is not an integer", errors.ErrInvalidInput, i+1, f)
		}
		values[i] = v
	}
	return values, nil
}

// readFields reads whitespace-separated tokens until EOF. Requests may span
// several lines.
func readFields(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	var fields []string
	for sc.Scan() {
		fields = append(fields, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return fields, nil
}
