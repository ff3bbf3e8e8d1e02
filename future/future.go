package future

import (
	"context"
	"errors"
	"sync"

	"github.com/karupanerura/value-cache/internal/panicutil"
)

// ErrNilRejection is the error a Future fails with when it is rejected with a nil error.
var ErrNilRejection = errors.New("future rejected with nil error")

// Future is the eventual result of an asynchronous operation.
// It settles exactly once, either with a value or with an error.
// It is safe for concurrent use.
type Future[V any] struct {
	done chan struct{}

	mu        sync.Mutex
	settled   bool
	value     V
	err       error
	listeners []listener[V]
}

type listener[V any] struct {
	onSuccess func(V)
	onFailure func(error)
}

// New returns a pending Future with its resolve and reject functions.
// Only the first call of either function settles the Future; later calls report false and do nothing.
func New[V any]() (f *Future[V], resolve func(V) bool, reject func(error) bool) {
	f = &Future[V]{done: make(chan struct{})}
	resolve = func(v V) bool {
		return f.settle(v, nil)
	}
	reject = func(err error) bool {
		if err == nil {
			err = ErrNilRejection
		}
		var zero V
		return f.settle(zero, err)
	}
	return f, resolve, reject
}

// Resolved returns a Future already settled with v.
func Resolved[V any](v V) *Future[V] {
	f := &Future[V]{done: make(chan struct{}), settled: true, value: v}
	close(f.done)
	return f
}

// Rejected returns a Future already settled with err.
func Rejected[V any](err error) *Future[V] {
	if err == nil {
		err = ErrNilRejection
	}
	f := &Future[V]{done: make(chan struct{}), settled: true, err: err}
	close(f.done)
	return f
}

// Done returns a channel that is closed once the Future is settled.
func (f *Future[V]) Done() <-chan struct{} {
	return f.done
}

// Result returns the settled value and error.
// If the Future is still pending, settled is false.
func (f *Future[V]) Result() (value V, err error, settled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err, f.settled
}

// Await blocks until the Future is settled or the context is done.
// If the context is done first, it returns the context error.
func (f *Future[V]) Await(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		// the fields are immutable once done is closed
		return f.value, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Then registers callbacks to run when the Future settles.
// If the Future is already settled, the matching callback runs immediately on the calling goroutine,
// otherwise it runs on the goroutine that settles the Future. Callbacks registered on the same Future
// run in registration order. A panic in onSuccess is passed to onFailure; either callback may be nil.
func (f *Future[V]) Then(onSuccess func(V), onFailure func(error)) {
	l := listener[V]{onSuccess: onSuccess, onFailure: onFailure}

	f.mu.Lock()
	if !f.settled {
		f.listeners = append(f.listeners, l)
		f.mu.Unlock()
		return
	}
	value, err := f.value, f.err
	f.mu.Unlock()

	l.notify(value, err)
}

func (f *Future[V]) settle(v V, err error) bool {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return false
	}
	f.settled = true
	f.value, f.err = v, err
	listeners := f.listeners
	f.listeners = nil
	close(f.done)
	f.mu.Unlock()

	for _, l := range listeners {
		l.notify(v, err)
	}
	return true
}

func (l listener[V]) notify(v V, err error) {
	if err != nil {
		if l.onFailure != nil {
			_ = panicutil.Do(func() { l.onFailure(err) }, nil)
		}
		return
	}
	if l.onSuccess == nil {
		return
	}
	if perr := panicutil.Do(func() { l.onSuccess(v) }, nil); perr != nil && l.onFailure != nil {
		_ = panicutil.Do(func() { l.onFailure(perr) }, nil)
	}
}
