// Package testing provides test utilities for the extsort project.
//
// It holds the checks every sorter test repeats (sortedness, permutation,
// run shape) and the error channel pattern for tests that fan work out to
// goroutines, where t.Fatal must not be called.
package testing

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"sync"
	"testing"
	"time"

	"github.com/xtxerr/extsort/internal/tape"
)

// =============================================================================
// Sort Checks
// =============================================================================

// CheckSorted returns an error if got is not non-decreasing.
func CheckSorted[T cmp.Ordered](got []T) error {
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			return fmt.Errorf("not sorted at index %d: %v > %v", i, got[i-1], got[i])
		}
	}
	return nil
}

// CheckPermutation returns an error if got and want differ as multisets.
func CheckPermutation[T comparable](got, want []T) error {
	if len(got) != len(want) {
		return fmt.Errorf("length mismatch: got %d values, want %d", len(got), len(want))
	}
	counts := make(map[T]int, len(want))
	for _, v := range want {
		counts[v]++
	}
	for _, v := range got {
		counts[v]--
	}
	for v, n := range maps.All(counts) {
		if n != 0 {
			return fmt.Errorf("value %v occurs %+d times more than expected", v, -n)
		}
	}
	return nil
}

// CheckSortedPermutation combines CheckSorted and CheckPermutation.
func CheckSortedPermutation[T cmp.Ordered](got, input []T) error {
	if err := CheckPermutation(got, input); err != nil {
		return err
	}
	return CheckSorted(got)
}

// CheckRuns returns an error if any run in files is not ascending, or if any
// run other than the last one formed is shorter than minLen. Runs are
// considered in formation order, which for a fewest-first distribution is
// round-robin across the files.
func CheckRuns[T cmp.Ordered](files tape.FileSet[T], minLen int) error {
	var ordered []tape.Run[T]
	for j := 0; ; j++ {
		found := false
		for _, f := range files {
			if j < f.Len() {
				ordered = append(ordered, f.Run(j))
				found = true
			}
		}
		if !found {
			break
		}
	}

	for i, r := range ordered {
		if !tape.Ascending(r, cmp.Compare[T]) {
			return fmt.Errorf("run %d not ascending: %v", i, r)
		}
		if i < len(ordered)-1 && len(r) < minLen {
			return fmt.Errorf("run %d has %d values, want at least %d", i, len(r), minLen)
		}
	}
	return nil
}

// RequireSortedPermutation fails the test if got is not a sorted
// permutation of input. Call only from the test goroutine.
func RequireSortedPermutation[T cmp.Ordered](t testing.TB, got, input []T) {
	t.Helper()
	if err := CheckSortedPermutation(got, input); err != nil {
		t.Fatalf("%v (input %v, output %v)", err, truncate(input), truncate(got))
	}
}

func truncate[T any](v []T) string {
	if len(v) <= 32 {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%v... (%d values)", v[:32], len(v))
}

// =============================================================================
// Error Channel Pattern
// =============================================================================

// GoroutineTest provides safe testing utilities for goroutines.
//
// Using t.Fatal or t.FailNow in a goroutine causes the test to hang because
// these functions call runtime.Goexit() which only exits the current goroutine,
// not the test goroutine.
//
// Example usage:
//
//	func TestConcurrentLevels(t *testing.T) {
//	    gt := testing.NewGoroutineTest(t)
//	    defer gt.Wait()
//
//	    gt.Go(func() error {
//	        level, err := schedule.Default.Polyphase(4, 100)
//	        if err != nil {
//	            return err
//	        }
//	        if level.Total < 100 {
//	            return fmt.Errorf("level total %d < 100", level.Total)
//	        }
//	        return nil
//	    })
//	}
type GoroutineTest struct {
	t      *testing.T
	wg     sync.WaitGroup
	errors chan error
	ctx    context.Context
	cancel context.CancelFunc
}

// NewGoroutineTest creates a new GoroutineTest helper.
func NewGoroutineTest(t *testing.T) *GoroutineTest {
	ctx, cancel := context.WithCancel(context.Background())
	return &GoroutineTest{
		t:      t,
		errors: make(chan error, 100),
		ctx:    ctx,
		cancel: cancel,
	}
}

// NewGoroutineTestWithTimeout creates a GoroutineTest with a timeout.
func NewGoroutineTestWithTimeout(t *testing.T, timeout time.Duration) *GoroutineTest {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	return &GoroutineTest{
		t:      t,
		errors: make(chan error, 100),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Go runs a function in a goroutine and collects any errors.
func (gt *GoroutineTest) Go(fn func() error) {
	gt.wg.Add(1)
	go func() {
		defer gt.wg.Done()
		if err := fn(); err != nil {
			select {
			case gt.errors <- err:
			default:
				gt.t.Logf("Error channel full, dropping error: %v", err)
			}
		}
	}()
}

// GoWithContext runs a function with context in a goroutine.
func (gt *GoroutineTest) GoWithContext(fn func(ctx context.Context) error) {
	gt.wg.Add(1)
	go func() {
		defer gt.wg.Done()
		if err := fn(gt.ctx); err != nil {
			select {
			case gt.errors <- err:
			case <-gt.ctx.Done():
			}
		}
	}()
}

// Wait waits for all goroutines to complete and fails the test if any errors occurred.
//
// This should be called with defer right after creating the GoroutineTest:
//
//	gt := testing.NewGoroutineTest(t)
//	defer gt.Wait()
func (gt *GoroutineTest) Wait() {
	gt.wg.Wait()
	gt.cancel()
	close(gt.errors)

	var errs []error
	for err := range gt.errors {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		gt.t.Errorf("Goroutine test failed with %d error(s):", len(errs))
		for i, err := range errs {
			gt.t.Errorf("  [%d] %v", i+1, err)
		}
		gt.t.FailNow()
	}
}

// Context returns the context for this test.
func (gt *GoroutineTest) Context() context.Context {
	return gt.ctx
}

// =============================================================================
// Assertion Helpers
// =============================================================================

// AssertEqual returns an error if got != want.
func AssertEqual[T comparable](got, want T, msg string) error {
	if got != want {
		return fmt.Errorf("%s: got %v, want %v", msg, got, want)
	}
	return nil
}

// AssertNoError returns an error if err is not nil.
func AssertNoError(err error, msg string) error {
	if err != nil {
		return fmt.Errorf("%s: unexpected error: %w", msg, err)
	}
	return nil
}
