// ABOUTME: Tests for the worker pool
// ABOUTME: Verifies every task runs before Wait returns and Map keeps input order

package pool

import (
	"errors"
	"runtime"
	"strconv"
	"sync/atomic"
	"testing"
)

func TestPool_RunsAllTasks(t *testing.T) {
	p := New(4)
	defer p.Close()

	var count atomic.Int64

	for range 100 {
		p.Submit(func() {
			count.Add(1)
		})
	}

	p.Wait()

	if got := count.Load(); got != 100 {
		t.Errorf("Expected 100 tasks to run, got %d", got)
	}
}

func TestPool_ReusableAfterWait(t *testing.T) {
	p := New(2)
	defer p.Close()

	results := make([]int, 10)

	for round := 1; round <= 2; round++ {
		for i := range results {
			p.Submit(func() {
				results[i] = i * round
			})
		}

		p.Wait()

		for i, v := range results {
			if v != i*round {
				t.Errorf("round %d: results[%d] = %d, want %d", round, i, v, i*round)
			}
		}
	}
}

func TestNew_DefaultsToCPUCount(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"zero", 0, runtime.NumCPU()},
		{"negative", -3, runtime.NumCPU()},
		{"explicit", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.workers)
			defer p.Close()

			if p.Workers() != tt.want {
				t.Errorf("Workers() = %d, want %d", p.Workers(), tt.want)
			}
		})
	}
}

func TestMap_KeepsOrderAndErrors(t *testing.T) {
	p := New(3)
	defer p.Close()

	items := []string{"1", "2", "x", "4"}

	results, errs := Map(p, items, strconv.Atoi)

	for i, want := range []int{1, 2, 0, 4} {
		if results[i] != want {
			t.Errorf("results[%d] = %d, want %d", i, results[i], want)
		}
	}

	for i, err := range errs {
		if (err != nil) != (i == 2) {
			t.Errorf("errs[%d] = %v", i, err)
		}
	}

	if !errors.Is(errs[2], strconv.ErrSyntax) {
		t.Errorf("Expected syntax error for %q, got %v", items[2], errs[2])
	}
}

func TestMap_Empty(t *testing.T) {
	p := New(1)
	defer p.Close()

	results, errs := Map(p, nil, func(s string) (int, error) { return len(s), nil })
	if len(results) != 0 || len(errs) != 0 {
		t.Errorf("Expected empty results, got %v %v", results, errs)
	}
}
