package sched

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunnerTicksUntilCancelled(t *testing.T) {
	var ticks atomic.Int64
	r := NewRunner(Job{
		Name:     "count",
		Interval: 5 * time.Millisecond,
		Fn:       func(ctx context.Context) { ticks.Add(1) },
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	r.Run(ctx)

	if n := ticks.Load(); n < 2 {
		t.Fatalf("job ticked %d times, want at least 2", n)
	}
}

func TestRunnerSurvivesPanic(t *testing.T) {
	var calls atomic.Int64
	r := NewRunner(Job{
		Name:     "flaky",
		Interval: 5 * time.Millisecond,
		Fn: func(ctx context.Context) {
			if calls.Add(1) == 1 {
				panic("boom")
			}
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	r.Run(ctx)

	if n := calls.Load(); n < 2 {
		t.Fatalf("job ran %d times, want it to keep running past the panic", n)
	}
}

func TestRunnerMultipleJobs(t *testing.T) {
	var a, b atomic.Int64
	r := NewRunner(
		Job{Name: "a", Interval: 5 * time.Millisecond, Fn: func(ctx context.Context) { a.Add(1) }},
		Job{Name: "b", Interval: 10 * time.Millisecond, Fn: func(ctx context.Context) { b.Add(1) }},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	r.Run(ctx)

	if a.Load() == 0 || b.Load() == 0 {
		t.Fatalf("both jobs should tick: a=%d b=%d", a.Load(), b.Load())
	}
}
