package valuecache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/karupanerura/value-cache/future"
	"github.com/karupanerura/value-cache/internal/panicutil"
)

// ValueCache caches the last value produced by a Loader.
//
// Reads are served from the cached value while it is fresh. When it is missing or
// expired, a refresh runs, and every caller asking for a value while that refresh
// is in flight attaches to it instead of starting another one: the Loader never
// runs more than once at a time. A failed refresh is reported to the callers
// waiting for it and leaves the previously cached value in place.
//
// A ValueCache is safe for concurrent use.
type ValueCache[V any] struct {
	loader  Loader[V]
	options options[V]

	mu         sync.Mutex
	value      V
	hasValue   bool
	lastUpdate time.Time
	updating   *update[V]
	timer      Timer
	timerSeq   uint64
	stopped    bool
}

// update is a single in-flight refresh and the callers waiting for it.
type update[V any] struct {
	startedAt time.Time
	waiters   []waiter[V]
}

type waiter[V any] struct {
	onSuccess func(V)
	onFailure func(error)
}

// New creates a ValueCache for the given Loader.
// It fails with an error wrapping ErrConfiguration when the loader is nil or an option is invalid.
func New[V any](loader Loader[V], opts ...Option[V]) (*ValueCache[V], error) {
	if isNilLoader(loader) {
		return nil, ErrLoaderRequired
	}

	o := defaultOptions[V]()
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrOptionsRequired
		}
		opt.apply(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	c := &ValueCache[V]{loader: loader, options: o}
	if o.immediate {
		c.mu.Lock()
		started, _ := c.attachLocked(nil)
		c.mu.Unlock()
		c.start(started)
	} else if o.refreshInterval > 0 {
		c.mu.Lock()
		c.scheduleLocked()
		c.mu.Unlock()
	}
	return c, nil
}

// Must is like New but panics on error.
func Must[V any](loader Loader[V], opts ...Option[V]) *ValueCache[V] {
	c, err := New(loader, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns a Future for a value.
//
// A fresh cached value settles the Future right away. Otherwise a refresh is started,
// or the in-flight one is joined, and the Future settles with its outcome.
// With WithWait(false), an expired value settles the Future right away while the refresh runs.
func (c *ValueCache[V]) Get(opts ...GetOption) *future.Future[V] {
	f, resolve, reject := future.New[V]()
	c.get(newGetOptions(true, opts), waiter[V]{
		onSuccess: func(v V) { resolve(v) },
		onFailure: func(err error) { reject(err) },
	})
	return f
}

// GetValue is like Get but blocks until the value is ready or ctx is done.
// Giving up on ctx does not cancel the load.
func (c *ValueCache[V]) GetValue(ctx context.Context, opts ...GetOption) (V, error) {
	return c.Get(opts...).Await(ctx)
}

// GetFunc is the callback form of Get.
// Exactly one of onSuccess and onFailure is called, possibly before GetFunc returns.
// If onSuccess panics, onFailure is called with the recovered panic.
func (c *ValueCache[V]) GetFunc(onSuccess func(V), onFailure func(error), opts ...GetOption) {
	c.get(newGetOptions(true, opts), newWaiter(onSuccess, onFailure))
}

// GetLast returns a Future settled right away with the cached value, or the zero value if nothing is cached yet.
// If the value is expired, a refresh is triggered but not waited for.
// With WithWait(true), it waits for the first load when nothing is cached yet.
func (c *ValueCache[V]) GetLast(opts ...GetOption) *future.Future[V] {
	f, resolve, reject := future.New[V]()
	c.getLast(newGetOptions(false, opts), waiter[V]{
		onSuccess: func(v V) { resolve(v) },
		onFailure: func(err error) { reject(err) },
	})
	return f
}

// Refresh starts a refresh regardless of freshness, or joins the in-flight one,
// and returns a Future for its outcome.
func (c *ValueCache[V]) Refresh() *future.Future[V] {
	f, resolve, reject := future.New[V]()
	w := waiter[V]{
		onSuccess: func(v V) { resolve(v) },
		onFailure: func(err error) { reject(err) },
	}

	c.mu.Lock()
	started, rejected := c.attachLocked(&w)
	c.mu.Unlock()

	if rejected {
		c.reject(w)
	}
	c.start(started)
	return f
}

// RawValue returns the cached value without triggering a load.
// ok is false if no load has succeeded yet.
func (c *ValueCache[V]) RawValue() (value V, ok bool) {
	c.mu.Lock()
	value, ok = c.value, c.hasValue
	c.mu.Unlock()

	if ok {
		value = c.options.cloner.CloneValue(value)
	}
	return value, ok
}

// IsExpired reports whether the next Get would refresh the value.
// It is true when nothing is cached, when the TTL is zero, and when the TTL has run out.
func (c *ValueCache[V]) IsExpired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isExpiredLocked(c.options.clock.Now())
}

// LastUpdate returns the completion time of the last successful load, or the zero time.
func (c *ValueCache[V]) LastUpdate() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUpdate
}

// Refreshing reports whether a load is in flight.
func (c *ValueCache[V]) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updating != nil
}

// Stop cancels the pending background refresh and keeps new ones from being scheduled.
// Reads keep working and load on demand. Stop is idempotent.
func (c *ValueCache[V]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	c.timerSeq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// StopWith arranges for Stop to be called once ctx is done.
// The returned function cancels the arrangement and reports whether it did so before Stop was called.
func (c *ValueCache[V]) StopWith(ctx context.Context) (cancel func() bool) {
	return context.AfterFunc(ctx, c.Stop)
}

func (c *ValueCache[V]) get(o getOptions, w waiter[V]) {
	c.mu.Lock()
	if c.hasValue && !c.isExpiredLocked(c.options.clock.Now()) {
		value := c.value
		c.mu.Unlock()

		c.options.observer.Observe(EventData{Event: EventHit})
		c.notifyOne(w, value, nil, nil)
		return
	}

	if c.hasValue && !o.wait {
		value := c.value
		started, _ := c.attachLocked(nil)
		c.mu.Unlock()

		c.options.observer.Observe(EventData{Event: EventStale})
		c.start(started)
		c.notifyOne(w, value, nil, nil)
		return
	}

	started, rejected := c.attachLocked(&w)
	c.mu.Unlock()

	if rejected {
		c.reject(w)
	} else {
		c.options.observer.Observe(EventData{Event: EventMiss})
	}
	c.start(started)
}

func (c *ValueCache[V]) getLast(o getOptions, w waiter[V]) {
	c.mu.Lock()
	if !c.hasValue && o.wait {
		started, rejected := c.attachLocked(&w)
		c.mu.Unlock()

		if rejected {
			c.reject(w)
		} else {
			c.options.observer.Observe(EventData{Event: EventMiss})
		}
		c.start(started)
		return
	}

	event := EventHit
	var started *update[V]
	if c.isExpiredLocked(c.options.clock.Now()) {
		started, _ = c.attachLocked(nil)
		event = EventStale
		if !c.hasValue {
			event = EventEmpty
		}
	}
	value := c.value
	c.mu.Unlock()

	c.options.observer.Observe(EventData{Event: event})
	c.start(started)
	c.notifyOne(w, value, nil, nil)
}

func (c *ValueCache[V]) isExpiredLocked(now time.Time) bool {
	if !c.hasValue || c.options.ttl == 0 {
		return true
	}
	return c.options.policy.IsExpired(now, c.lastUpdate.Add(c.options.ttl))
}

// attachLocked adds w, if not nil, to the in-flight update, creating the update if none is running.
// A newly created update is returned and must be passed to start once c.mu is released.
// rejected reports that w was turned away by the waiter bound.
func (c *ValueCache[V]) attachLocked(w *waiter[V]) (started *update[V], rejected bool) {
	u := c.updating
	if u == nil {
		u = &update[V]{startedAt: c.options.clock.Now()}
		c.updating = u
		started = u
	}
	if w == nil {
		return started, false
	}
	// TODO: resolve overflowing callers with the cached value when there is one instead of failing them.
	if c.options.maxWaiters > 0 && len(u.waiters) >= c.options.maxWaiters {
		return started, true
	}
	u.waiters = append(u.waiters, *w)
	return started, false
}

func (c *ValueCache[V]) start(u *update[V]) {
	if u == nil {
		return
	}
	c.options.observer.Observe(EventData{Event: EventLoadStart})
	c.options.executor.Go(func() {
		c.run(u)
	})
}

// run invokes the loader for u and settles it.
func (c *ValueCache[V]) run(u *update[V]) {
	var value V
	err := panicutil.Call(func() (err error) {
		value, err = c.loader.Load(c.options.loadContext())
		return err
	}, func() {
		var zero V
		c.settle(u, zero, ErrLoaderExited)
	})
	c.settle(u, value, err)
}

func (c *ValueCache[V]) settle(u *update[V], value V, err error) {
	c.mu.Lock()
	now := c.options.clock.Now()
	if err == nil {
		c.value, c.hasValue, c.lastUpdate = value, true, now
	}
	waiters := u.waiters
	u.waiters = nil
	if c.updating == u {
		c.updating = nil
	}
	c.scheduleLocked()
	c.mu.Unlock()

	event := EventData{
		Event:    EventLoadSuccess,
		Duration: now.Sub(u.startedAt),
		Waiters:  len(waiters),
	}
	if err != nil {
		err = &LoadError{StartedAt: u.startedAt, Err: err}
		event.Event, event.Err = EventLoadFailure, err
		c.options.logger.Warn("value cache load failed",
			slog.Any("error", err),
			slog.Duration("duration", event.Duration),
			slog.Int("waiters", len(waiters)),
		)
	}
	c.options.observer.Observe(event)
	c.notify(waiters, value, err)
}

// notify delivers the outcome to waiters in insertion order.
// A waiter leaving through runtime.Goexit does not keep the rest from being notified.
func (c *ValueCache[V]) notify(waiters []waiter[V], value V, err error) {
	for i, w := range waiters {
		rest := waiters[i+1:]
		c.notifyOne(w, value, err, func() {
			c.notify(rest, value, err)
		})
	}
}

func (c *ValueCache[V]) notifyOne(w waiter[V], value V, err error, onGoexit func()) {
	if err == nil {
		err = panicutil.Do(func() {
			w.onSuccess(c.options.cloner.CloneValue(value))
		}, onGoexit)
		if err == nil {
			return
		}
		c.options.logger.Error("value cache caller failed to receive value", slog.Any("error", err))
		c.options.observer.Observe(EventData{Event: EventWaiterFault, Err: err})
	}
	if ferr := panicutil.Do(func() { w.onFailure(err) }, onGoexit); ferr != nil {
		c.options.logger.Error("value cache caller failed to receive error",
			slog.Any("error", ferr),
			slog.Any("delivered", err),
		)
	}
}

func (c *ValueCache[V]) reject(w waiter[V]) {
	c.options.observer.Observe(EventData{Event: EventWaiterRejected, Err: ErrTooManyWaiters})
	var zero V
	c.notifyOne(w, zero, ErrTooManyWaiters, nil)
}

// scheduleLocked replaces the pending background refresh, if enabled.
func (c *ValueCache[V]) scheduleLocked() {
	if c.options.refreshInterval <= 0 || c.stopped {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timerSeq++
	seq := c.timerSeq
	c.timer = c.options.scheduler.AfterFunc(c.options.refreshInterval, func() {
		c.onTimer(seq)
	})
}

func (c *ValueCache[V]) onTimer(seq uint64) {
	c.mu.Lock()
	if c.stopped || seq != c.timerSeq {
		// superseded by a newer timer
		c.mu.Unlock()
		return
	}
	c.timer = nil
	if c.updating != nil {
		c.scheduleLocked()
		c.mu.Unlock()

		c.options.logger.Debug("value cache background refresh deferred: load in flight")
		c.options.observer.Observe(EventData{Event: EventRefreshDeferred})
		return
	}
	started, _ := c.attachLocked(nil)
	c.mu.Unlock()

	c.start(started)
}

func newWaiter[V any](onSuccess func(V), onFailure func(error)) waiter[V] {
	if onSuccess == nil {
		onSuccess = func(V) {}
	}
	if onFailure == nil {
		onFailure = func(error) {}
	}
	return waiter[V]{onSuccess: onSuccess, onFailure: onFailure}
}
