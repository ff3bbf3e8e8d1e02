package valuecache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	valuecache "github.com/karupanerura/value-cache"
)

var syncExecutor = valuecache.ExecutorFunc(func(f func()) { f() })

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeScheduler records scheduled calls, which only run when the test fires them.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	mu      sync.Mutex
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) valuecache.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Pending returns the timers neither stopped nor fired.
func (s *fakeScheduler) Pending() []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []*fakeTimer
	for _, t := range s.timers {
		t.mu.Lock()
		if !t.stopped && !t.fired {
			pending = append(pending, t)
		}
		t.mu.Unlock()
	}
	return pending
}

// Scheduled returns the number of AfterFunc calls so far.
func (s *fakeScheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Fire runs t even if it has been stopped, as a real timer racing with Stop could.
func (t *fakeTimer) Fire() {
	t.mu.Lock()
	t.fired = true
	t.mu.Unlock()
	t.f()
}

type recordingObserver struct {
	mu     sync.Mutex
	events []valuecache.EventData
}

func (o *recordingObserver) Observe(e valuecache.EventData) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) Events() []valuecache.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	events := make([]valuecache.Event, len(o.events))
	for i, e := range o.events {
		events[i] = e.Event
	}
	return events
}

func (o *recordingObserver) Data() []valuecache.EventData {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]valuecache.EventData(nil), o.events...)
}

// gatedLoader counts up from zero, blocking every load until the test releases it.
type gatedLoader struct {
	calls   atomic.Int32
	running atomic.Int32
	overlap atomic.Bool
	started chan struct{}
	release chan error
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{
		started: make(chan struct{}, 16),
		release: make(chan error),
	}
}

func (l *gatedLoader) Load(ctx context.Context) (int, error) {
	if l.running.Add(1) > 1 {
		l.overlap.Store(true)
	}
	defer l.running.Add(-1)

	n := l.calls.Add(1) - 1
	l.started <- struct{}{}
	select {
	case err := <-l.release:
		return int(n), err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// counterLoader counts up from zero after a short delay.
type counterLoader struct {
	calls atomic.Int32
	delay time.Duration
}

func (l *counterLoader) Load(context.Context) (int, error) {
	time.Sleep(l.delay)
	return int(l.calls.Add(1) - 1), nil
}
