package valuecache

import (
	"time"
)

// Clock is an interface for getting the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc is a function type that implements the Clock interface.
type ClockFunc func() time.Time

// Now calls the function.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock is the default clock that uses time.Now.
var SystemClock Clock = ClockFunc(time.Now)

// Timer is a pending call scheduled by a Scheduler.
type Timer interface {
	// Stop prevents the call from running.
	// It returns false if the call already ran or was already stopped; that is not an error.
	Stop() bool
}

// Scheduler arranges for a function to be called after a delay.
// The function must be called on another goroutine, never from inside AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc is a function type that implements the Scheduler interface.
type SchedulerFunc func(d time.Duration, f func()) Timer

// AfterFunc calls the function.
func (s SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer {
	return s(d, f)
}

// SystemScheduler is the default scheduler backed by time.AfterFunc.
// Pending runtime timers never keep a Go program from exiting.
var SystemScheduler Scheduler = SchedulerFunc(func(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
})

// Executor runs loads asynchronously.
// *pool.Pool from github.com/sourcegraph/conc/pool satisfies it.
type Executor interface {
	Go(f func())
}

// ExecutorFunc is a function type that implements the Executor interface.
type ExecutorFunc func(f func())

// Go calls the function.
func (e ExecutorFunc) Go(f func()) {
	e(f)
}

// GoroutineExecutor is the default executor that runs every load on a new goroutine.
var GoroutineExecutor Executor = ExecutorFunc(func(f func()) {
	go f()
})
