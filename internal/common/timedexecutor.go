package common

import (
	"context"
	"sync/atomic"
	"time"
)

// Give the timed executor a task and a timeout.
// Call Execute from time to time: the task runs if the timeout since the
// previous run has been reached and no previous run is still going on.
// Otherwise the call does nothing.
type TimedExecutor struct {
	stopwatch *Stopwatch
	task      func(context.Context)
	running   atomic.Bool
}

// Create a timed executor provided a timeout and a task
func NewTimedExecutor(timeout time.Duration, task func(context.Context)) *TimedExecutor {
	return &TimedExecutor{stopwatch: NewStopwatch(timeout), task: task}
}

// Execute runs the task synchronously and reports whether it ran.
func (te *TimedExecutor) Execute(ctx context.Context) bool {
	if !te.running.CompareAndSwap(false, true) {
		return false
	}
	defer te.running.Store(false)

	if stopped, _ := te.stopwatch.Stopped(); !stopped {
		return false
	}
	te.stopwatch.Start()
	te.task(ctx)
	return true
}

// Running reports whether a run is in progress.
func (te *TimedExecutor) Running() bool {
	return te.running.Load()
}
