// Package query summarizes exported sweep files with DuckDB.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/xtxerr/extsort/internal/logging"
)

// Service runs SQL over Parquet sweep files.
type Service struct {
	mu sync.Mutex

	db *sql.DB

	// Statistics
	stats Stats
}

// Stats holds query statistics.
type Stats struct {
	QueriesExecuted int64
	RowsReturned    int64
	Errors          int64
}

// AlphaSummary aggregates the alpha rows of one strategy and run count.
type AlphaSummary struct {
	Strategy    string
	Runs        int64
	Repetitions int64
	MeanAlpha   float64
	MinAlpha    float64
	MaxAlpha    float64
	MeanPhases  float64
	MeanDummies float64
}

// BetaSummary aggregates the beta rows of one memory budget.
type BetaSummary struct {
	Budget      int64
	Repetitions int64
	MeanBeta    float64
	MinBeta     float64
	MaxBeta     float64
	TotalRuns   int64
}

// New creates a query service over an in-memory DuckDB database.
// memoryLimit is passed to DuckDB as-is, e.g. "1GB"; empty keeps the default.
func New(memoryLimit string) (*Service, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	if memoryLimit != "" {
		_, err = db.Exec(fmt.Sprintf("SET memory_limit=%s", quote(memoryLimit)))
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("set memory limit: %w", err)
		}
	}

	return &Service{db: db}, nil
}

// Close closes the query service.
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// AlphaSummary summarizes the alpha files matching pattern, grouped by
// strategy and initial run count.
func (s *Service) AlphaSummary(ctx context.Context, pattern string) ([]AlphaSummary, error) {
	query := fmt.Sprintf(`
		SELECT
			strategy, runs, count(*),
			avg(alpha), min(alpha), max(alpha),
			avg(phases), avg(dummies)
		FROM read_parquet(%s)
		GROUP BY strategy, runs
		ORDER BY strategy, runs
	`, quote(pattern))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.fail()
		return nil, fmt.Errorf("query alpha: %w", err)
	}
	defer rows.Close()

	var results []AlphaSummary
	for rows.Next() {
		var r AlphaSummary
		if err := rows.Scan(
			&r.Strategy, &r.Runs, &r.Repetitions,
			&r.MeanAlpha, &r.MinAlpha, &r.MaxAlpha,
			&r.MeanPhases, &r.MeanDummies,
		); err != nil {
			s.fail()
			return nil, fmt.Errorf("scan alpha: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		s.fail()
		return nil, err
	}

	s.done(len(results))
	return results, nil
}

// BetaSummary summarizes the beta files matching pattern, grouped by
// memory budget.
func (s *Service) BetaSummary(ctx context.Context, pattern string) ([]BetaSummary, error) {
	query := fmt.Sprintf(`
		SELECT
			budget, count(*),
			avg(beta), min(beta), max(beta),
			CAST(sum(runs) AS BIGINT)
		FROM read_parquet(%s)
		GROUP BY budget
		ORDER BY budget
	`, quote(pattern))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.fail()
		return nil, fmt.Errorf("query beta: %w", err)
	}
	defer rows.Close()

	var results []BetaSummary
	for rows.Next() {
		var r BetaSummary
		if err := rows.Scan(
			&r.Budget, &r.Repetitions,
			&r.MeanBeta, &r.MinBeta, &r.MaxBeta,
			&r.TotalRuns,
		); err != nil {
			s.fail()
			return nil, fmt.Errorf("scan beta: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		s.fail()
		return nil, err
	}

	s.done(len(results))
	return results, nil
}

// ExecuteSQL executes a raw SQL query using DuckDB.
func (s *Service) ExecuteSQL(ctx context.Context, query string) ([]map[string]interface{}, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.fail()
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			s.fail()
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		s.fail()
		return nil, err
	}

	s.done(len(results))
	return results, nil
}

// Stats returns query statistics.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Service) done(rows int) {
	s.mu.Lock()
	s.stats.QueriesExecuted++
	s.stats.RowsReturned += int64(rows)
	s.mu.Unlock()

	logging.Debug("query executed", "component", "query", "rows", rows)
}

func (s *Service) fail() {
	s.mu.Lock()
	s.stats.Errors++
	s.mu.Unlock()
}

// quote renders s as a SQL string literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
