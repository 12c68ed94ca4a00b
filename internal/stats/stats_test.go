package stats

import (
	"context"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/sorter"
	testutil "github.com/xtxerr/extsort/internal/testing"
)

func TestRunLengthAggregate_Basic(t *testing.T) {
	agg := NewRunLengthAggregate()

	if r := agg.Result(); r.Count != 0 || r.Mean != 0 {
		t.Errorf("empty aggregate result = %+v", r)
	}

	for i := 1; i <= 100; i++ {
		agg.Add(i)
	}

	r := agg.Result()
	if r.Count != 100 || agg.Count() != 100 {
		t.Errorf("expected count=100, got %d", r.Count)
	}
	if r.Min != 1 || r.Max != 100 {
		t.Errorf("min/max = %v/%v", r.Min, r.Max)
	}
	if math.Abs(r.Mean-50.5) > 0.001 {
		t.Errorf("expected mean=50.5, got %f", r.Mean)
	}

	// 1% relative accuracy
	if math.Abs(r.P50-50) > 1.5 {
		t.Errorf("expected p50≈50, got %f", r.P50)
	}
	if math.Abs(r.P99-99) > 2 {
		t.Errorf("expected p99≈99, got %f", r.P99)
	}
}

func TestRunLengthAggregate_Merge(t *testing.T) {
	a := NewRunLengthAggregate()
	b := NewRunLengthAggregate()
	for i := 1; i <= 50; i++ {
		a.Add(i)
	}
	for i := 51; i <= 100; i++ {
		b.Add(i)
	}

	a.Merge(b)
	a.Merge(nil)
	a.Merge(a)
	a.Merge(NewRunLengthAggregate())

	r := a.Result()
	if r.Count != 100 || r.Min != 1 || r.Max != 100 {
		t.Errorf("merged result = %+v", r)
	}
	if math.Abs(r.P90-90) > 2 {
		t.Errorf("expected p90≈90, got %f", r.P90)
	}

	a.Reset()
	if a.Count() != 0 || a.Result().P50 != 0 {
		t.Error("Reset did not clear the aggregate")
	}
}

func TestRunLengthAggregate_Concurrent(t *testing.T) {
	agg := NewRunLengthAggregate()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				agg.Add(i % 17)
			}
		}()
	}
	wg.Wait()

	if agg.Count() != 8000 {
		t.Errorf("expected count=8000, got %d", agg.Count())
	}
}

func smallAlphaConfig() AlphaConfig {
	cfg := DefaultAlphaConfig()
	cfg.FileCount = 4
	cfg.MemoryBudget = 4
	cfg.MinRuns = 5
	cfg.MaxRuns = 25
	cfg.Step = 10
	cfg.Repetitions = 3
	cfg.ValueRange = 100
	cfg.Workers = 4
	cfg.Seed = 42
	return cfg
}

func TestAlphaSweep(t *testing.T) {
	cfg := smallAlphaConfig()
	rows, err := AlphaSweep(context.Background(), cfg)
	if err != nil {
		t.Fatalf("AlphaSweep failed: %v", err)
	}

	// 3 strategies x 3 run counts x 3 repetitions
	if len(rows) != 27 {
		t.Fatalf("expected 27 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Strategy != "balanced" || first.Runs != 5 || first.Repetition != 0 {
		t.Errorf("rows not ordered by strategy, runs, repetition: %+v", first)
	}
	if last := rows[len(rows)-1]; last.Strategy != "cascade" || last.Runs != 25 || last.Repetition != 2 {
		t.Errorf("last row = %+v", last)
	}

	for _, r := range rows {
		if r.Alpha < 1 {
			t.Errorf("%s with %d runs: alpha %.3f < 1", r.Strategy, r.Runs, r.Alpha)
		}
		if r.Phases == 0 {
			t.Errorf("%s with %d runs: no merge phase", r.Strategy, r.Runs)
		}
		if r.Strategy == "balanced" && r.Dummies != 0 {
			t.Errorf("balanced merge reported %d dummies", r.Dummies)
		}
	}
}

func TestAlphaSweep_Reproducible(t *testing.T) {
	cfg := smallAlphaConfig()
	a, err := AlphaSweep(context.Background(), cfg)
	if err != nil {
		t.Fatalf("AlphaSweep failed: %v", err)
	}

	cfg.Workers = 1
	b, err := AlphaSweep(context.Background(), cfg)
	if err != nil {
		t.Fatalf("AlphaSweep failed: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("rows depend on worker count")
	}
}

func TestAlphaSweep_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := AlphaSweep(ctx, smallAlphaConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestAlphaConfig_Validate(t *testing.T) {
	if err := DefaultAlphaConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	cfg := smallAlphaConfig()
	cfg.FileCount = 2
	cfg.Strategies = []sorter.Strategy{sorter.Polyphase}
	if err := cfg.Validate(); !errors.Is(err, errors.ErrInvalidFileCount) {
		t.Errorf("expected ErrInvalidFileCount, got %v", err)
	}

	cfg = smallAlphaConfig()
	cfg.MaxRuns = 1
	cfg.Step = 0
	cfg.Repetitions = 0
	if err := cfg.Validate(); !errors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	cfg = smallAlphaConfig()
	cfg.Strategies = nil
	if err := cfg.Validate(); !errors.Is(err, errors.ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
}

func TestBetaSweep(t *testing.T) {
	cfg := DefaultBetaConfig()
	cfg.Budgets = []int{1, 4, 16}
	cfg.InputSize = 5000
	cfg.Repetitions = 2
	cfg.Seed = 7

	lengths := NewRunLengthAggregate()
	rows, err := BetaSweep(context.Background(), cfg, lengths)
	if err != nil {
		t.Fatalf("BetaSweep failed: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}

	var totalRuns int64
	for _, r := range rows {
		totalRuns += int64(r.Runs)

		// Replacement selection yields runs of about 2M on random input.
		if r.Beta < 1.5 || r.Beta > 2.5 {
			t.Errorf("M=%d: beta %.3f outside [1.5, 2.5]", r.Budget, r.Beta)
		}
		if r.Shortest > r.Longest || r.MeanLength*float64(r.Runs) < float64(cfg.InputSize)-0.5 {
			t.Errorf("M=%d: inconsistent row %+v", r.Budget, r)
		}
		if r.P50 <= 0 {
			t.Errorf("M=%d: missing quantiles", r.Budget)
		}
	}

	if lengths.Count() != totalRuns {
		t.Errorf("aggregate saw %d runs, rows report %d", lengths.Count(), totalRuns)
	}
}

func TestBetaConfig_Validate(t *testing.T) {
	if err := DefaultBetaConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	cfg := DefaultBetaConfig()
	cfg.Budgets = []int{3, 0}
	if err := cfg.Validate(); !errors.Is(err, errors.ErrInvalidMemoryBudget) {
		t.Errorf("expected ErrInvalidMemoryBudget, got %v", err)
	}

	cfg = DefaultBetaConfig()
	cfg.InputSize = 0
	cfg.Workers = -1
	if err := cfg.Validate(); !errors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestSpan(t *testing.T) {
	if got := span(10, 30, 10); !reflect.DeepEqual(got, []int{10, 20, 30}) {
		t.Errorf("span = %v", got)
	}
	if got := span(1, 1, 5); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("span = %v", got)
	}
}

func TestBetaSweep_ConcurrentSharedAggregate(t *testing.T) {
	cfg := DefaultBetaConfig()
	cfg.Budgets = []int{2, 8}
	cfg.InputSize = 1000
	cfg.Repetitions = 2

	lengths := NewRunLengthAggregate()
	totals := make([]int64, 4)

	gt := testutil.NewGoroutineTestWithTimeout(t, time.Minute)
	for i := range totals {
		gt.Go(func() error {
			c := cfg
			c.Seed = uint64(i + 1)
			rows, err := BetaSweep(gt.Context(), c, lengths)
			if err != nil {
				return err
			}
			for _, r := range rows {
				totals[i] += int64(r.Runs)
			}
			return nil
		})
	}
	gt.Wait()

	var want int64
	for _, n := range totals {
		want += n
	}
	if lengths.Count() != want {
		t.Errorf("aggregate saw %d runs, sweeps report %d", lengths.Count(), want)
	}
}

func TestRunLengthAggregate_MergeBothWays(t *testing.T) {
	a := NewRunLengthAggregate()
	b := NewRunLengthAggregate()
	a.Add(3)
	b.Add(5)

	var wg sync.WaitGroup
	// Counts grow like Fibonacci numbers, so keep the rounds few.
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			a.Merge(b)
		}()
		go func() {
			defer wg.Done()
			b.Merge(a)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("opposite merges deadlocked")
	}

	if a.Count() < 2 || b.Count() < 2 {
		t.Errorf("counts after merging: a=%d b=%d", a.Count(), b.Count())
	}
}
