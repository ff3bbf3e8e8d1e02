package valuecache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/karupanerura/value-cache/expiration"
)

// DefaultTTL is the TTL used when WithTTL is not given.
const DefaultTTL = time.Minute

// Option is the interface for the options of the ValueCache.
type Option[V any] interface {
	apply(*options[V])
}

type optionFunc[V any] func(*options[V])

func (f optionFunc[V]) apply(o *options[V]) {
	f(o)
}

// WithTTL sets how long a loaded value stays fresh.
// Zero means a value is never fresh, so every Get checks for a refresh.
// The default is DefaultTTL.
func WithTTL[V any](ttl time.Duration) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.ttl = ttl
	})
}

// WithRefreshInterval enables background refresh: every time a load settles,
// the next one is scheduled this long afterwards. Zero, the default, disables it.
func WithRefreshInterval[V any](interval time.Duration) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.refreshInterval = interval
	})
}

// WithImmediate starts the first load when the cache is created.
func WithImmediate[V any](immediate bool) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.immediate = immediate
	})
}

// WithClock sets the clock used for load timestamps and freshness checks.
func WithClock[V any](clock Clock) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.clock = clock
	})
}

// WithScheduler sets the scheduler used for background refresh.
// The default is SystemScheduler.
func WithScheduler[V any](scheduler Scheduler) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.scheduler = scheduler
	})
}

// WithExecutor sets the executor that runs loads.
// The default is GoroutineExecutor.
func WithExecutor[V any](executor Executor) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.executor = executor
	})
}

// WithExpirationPolicy sets the policy deciding when a value is stale.
// The default is expiration.GeneralPolicy.
func WithExpirationPolicy[V any](policy expiration.Policy) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.policy = policy
	})
}

// WithCloner sets the value cloner applied to every value handed to a caller.
// The default is DefaultValueCloner.
func WithCloner[V any](cloner ValueCloner[V]) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.cloner = cloner
	})
}

// WithLoadContextProvider sets the provider of the context passed to each load.
// The provider must return a new context for each call.
// The default context provider is context.Background.
func WithLoadContextProvider[V any](provider func() context.Context) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.loadContext = provider
	})
}

// WithObserver sets the observer notified of cache events.
func WithObserver[V any](observer Observer) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.observer = observer
	})
}

// WithLogger sets the logger for load failures and faulty callbacks.
// By default nothing is logged.
func WithLogger[V any](logger *slog.Logger) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.logger = logger
	})
}

// WithMaxWaiters bounds how many callers may wait on a single load.
// Callers over the bound fail right away with ErrTooManyWaiters; the load itself is unaffected.
// Zero, the default, means no bound.
func WithMaxWaiters[V any](n int) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.maxWaiters = n
	})
}

type options[V any] struct {
	ttl             time.Duration
	refreshInterval time.Duration
	immediate       bool
	clock           Clock
	scheduler       Scheduler
	executor        Executor
	policy          expiration.Policy
	cloner          ValueCloner[V]
	loadContext     func() context.Context
	observer        Observer
	logger          *slog.Logger
	maxWaiters      int
}

func defaultOptions[V any]() options[V] {
	return options[V]{
		ttl:         DefaultTTL,
		clock:       SystemClock,
		scheduler:   SystemScheduler,
		executor:    GoroutineExecutor,
		policy:      expiration.GeneralPolicy{},
		cloner:      DefaultValueCloner[V](),
		loadContext: context.Background,
		observer:    nopObserver{},
		logger:      slog.New(slog.DiscardHandler),
	}
}

func (o *options[V]) validate() error {
	switch {
	case o.ttl < 0:
		return fmt.Errorf("%w: negative ttl %v", ErrInvalidOption, o.ttl)
	case o.refreshInterval < 0:
		return fmt.Errorf("%w: negative refresh interval %v", ErrInvalidOption, o.refreshInterval)
	case o.maxWaiters < 0:
		return fmt.Errorf("%w: negative max waiters %d", ErrInvalidOption, o.maxWaiters)
	case o.clock == nil:
		return fmt.Errorf("%w: nil clock", ErrInvalidOption)
	case o.scheduler == nil:
		return fmt.Errorf("%w: nil scheduler", ErrInvalidOption)
	case o.executor == nil:
		return fmt.Errorf("%w: nil executor", ErrInvalidOption)
	case o.policy == nil:
		return fmt.Errorf("%w: nil expiration policy", ErrInvalidOption)
	case o.cloner == nil:
		return fmt.Errorf("%w: nil cloner", ErrInvalidOption)
	case o.loadContext == nil:
		return fmt.Errorf("%w: nil load context provider", ErrInvalidOption)
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return nil
}

// GetOption configures a single read.
type GetOption func(*getOptions)

// WithWait sets whether a read waits for a refresh.
//
// For Get, it defaults to true; false returns the expired value right away while the refresh runs.
// For GetLast, it defaults to false; true waits only when nothing has been cached yet.
func WithWait(wait bool) GetOption {
	return func(o *getOptions) {
		o.wait = wait
	}
}

type getOptions struct {
	wait bool
}

func newGetOptions(defaultWait bool, opts []GetOption) getOptions {
	o := getOptions{wait: defaultWait}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
