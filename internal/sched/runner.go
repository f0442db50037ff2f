// Package sched drives named periodic jobs on independent tickers.
package sched

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fx-signal-bot/internal/logger"
)

// Job is one periodic task. Fn must tolerate being invoked again on the
// next tick regardless of how the previous run ended.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context)
}

// Runner ticks each job on its own goroutine until the context is
// cancelled. A panic inside a job is logged and never stops the loop.
type Runner struct {
	jobs []Job
}

func NewRunner(jobs ...Job) *Runner {
	return &Runner{jobs: jobs}
}

// Run blocks until ctx is done and all job loops have drained.
func (r *Runner) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, j := range r.jobs {
		wg.Add(1)
		go func(j Job) {
			defer wg.Done()
			r.loop(ctx, j)
		}(j)
	}
	wg.Wait()
}

func (r *Runner) loop(ctx context.Context, j Job) {
	tick := time.NewTicker(j.Interval)
	defer tick.Stop()

	logger.Info(ctx, "Scheduled job started", "job", j.Name, "interval", j.Interval.String())
	for {
		select {
		case <-tick.C:
			r.invoke(ctx, j)
		case <-ctx.Done():
			logger.Info(ctx, "Scheduled job stopped", "job", j.Name)
			return
		}
	}
}

func (r *Runner) invoke(ctx context.Context, j Job) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(ctx, "Job panicked", "job", j.Name, "panic", fmt.Sprint(rec))
		}
	}()
	j.Fn(ctx)
}
