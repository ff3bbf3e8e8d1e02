package valuecache

import (
	"context"

	"github.com/karupanerura/value-cache/future"
	"github.com/karupanerura/value-cache/internal/panicutil"
)

// Loader produces a fresh value for the cache.
// The cache never runs more than one Load at a time.
type Loader[V any] interface {
	Load(ctx context.Context) (V, error)
}

// LoaderFunc is a function type that implements the Loader interface.
type LoaderFunc[V any] func(ctx context.Context) (V, error)

// Load calls the function.
func (f LoaderFunc[V]) Load(ctx context.Context) (V, error) {
	return f(ctx)
}

// CallbackLoader is a Loader that reports its outcome through callbacks.
// The function must eventually call exactly one of resolve or reject; later calls are ignored.
// A panic in the function itself is treated as an immediate reject.
type CallbackLoader[V any] func(ctx context.Context, resolve func(V), reject func(error))

// Load runs the function and waits until it settles or ctx is done.
func (f CallbackLoader[V]) Load(ctx context.Context) (V, error) {
	fut, resolve, reject := future.New[V]()
	err := panicutil.Do(func() {
		f(ctx, func(v V) { resolve(v) }, func(err error) { reject(err) })
	}, nil)
	if err != nil {
		reject(err)
	}
	return fut.Await(ctx)
}

// FutureLoader is a Loader whose function starts the work and returns a Future for its outcome.
// It lets the cache sit on top of whatever asynchronous machinery already produces Futures.
type FutureLoader[V any] func(ctx context.Context) *future.Future[V]

// Load starts the work and waits until its Future settles or ctx is done.
func (f FutureLoader[V]) Load(ctx context.Context) (V, error) {
	fut := f(ctx)
	if fut == nil {
		var zero V
		return zero, ErrNilFuture
	}
	return fut.Await(ctx)
}

func isNilLoader[V any](loader Loader[V]) bool {
	switch l := loader.(type) {
	case nil:
		return true
	case LoaderFunc[V]:
		return l == nil
	case CallbackLoader[V]:
		return l == nil
	case FutureLoader[V]:
		return l == nil
	default:
		return false
	}
}
