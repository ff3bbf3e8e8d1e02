package valuecache

import (
	"time"
)

// Event identifies what happened inside a ValueCache.
type Event uint8

const (
	// EventHit is emitted when a read is served a fresh cached value.
	EventHit Event = iota + 1

	// EventStale is emitted when a read is served an expired value while a refresh runs.
	EventStale

	// EventEmpty is emitted when GetLast is served the zero value because nothing is cached yet.
	EventEmpty

	// EventMiss is emitted when a read waits for a load.
	EventMiss

	// EventLoadStart is emitted when a load begins.
	EventLoadStart

	// EventLoadSuccess is emitted when a load completes with a value.
	EventLoadSuccess

	// EventLoadFailure is emitted when a load fails.
	EventLoadFailure

	// EventRefreshDeferred is emitted when the refresh timer fires during a load and is re-armed.
	EventRefreshDeferred

	// EventWaiterFault is emitted when a caller's success callback panics.
	EventWaiterFault

	// EventWaiterRejected is emitted when a caller is turned away by WithMaxWaiters.
	EventWaiterRejected
)

var eventNames = map[Event]string{
	EventHit:             "hit",
	EventStale:           "stale",
	EventEmpty:           "empty",
	EventMiss:            "miss",
	EventLoadStart:       "load_start",
	EventLoadSuccess:     "load_success",
	EventLoadFailure:     "load_failure",
	EventRefreshDeferred: "refresh_deferred",
	EventWaiterFault:     "waiter_fault",
	EventWaiterRejected:  "waiter_rejected",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return "unknown"
}

// EventData describes one Event.
type EventData struct {
	Event Event

	// Duration is how long the load took. Set for EventLoadSuccess and EventLoadFailure.
	Duration time.Duration

	// Waiters is the number of callers notified of the load outcome.
	// Set for EventLoadSuccess and EventLoadFailure.
	Waiters int

	// Err is the failure. Set for EventLoadFailure, EventWaiterFault and EventWaiterRejected.
	Err error
}

// Observer receives events from a ValueCache.
// It is called outside the cache lock, on whichever goroutine caused the event, and must not block.
type Observer interface {
	Observe(EventData)
}

// ObserverFunc is a function type that implements the Observer interface.
type ObserverFunc func(EventData)

// Observe calls the function.
func (f ObserverFunc) Observe(e EventData) {
	f(e)
}

type nopObserver struct{}

func (nopObserver) Observe(EventData) {}
