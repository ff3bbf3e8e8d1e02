package otelvaluecache

import (
	"context"
	"fmt"

	valuecache "github.com/karupanerura/value-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/karupanerura/value-cache/otelvaluecache"

// Metric names.
const (
	ReadsMetric          = "valuecache.reads"
	LoadsMetric          = "valuecache.loads"
	ActiveLoadsMetric    = "valuecache.loads.active"
	LoadDurationMetric   = "valuecache.load.duration"
	LoadWaitersMetric    = "valuecache.load.waiters"
	DeferredMetric       = "valuecache.refresh.deferred"
	WaiterFailuresMetric = "valuecache.waiter.failures"
)

// Option configures an Observer.
type Option func(*config)

type config struct {
	attributes []attribute.KeyValue
}

// WithCacheName adds a "cache" attribute to every measurement.
func WithCacheName(name string) Option {
	return func(c *config) {
		c.attributes = append(c.attributes, attribute.String("cache", name))
	}
}

// WithAttributes adds attributes to every measurement.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(c *config) {
		c.attributes = append(c.attributes, attrs...)
	}
}

// Observer is a valuecache.Observer recording metrics.
type Observer struct {
	reads          metric.Int64Counter
	loads          metric.Int64Counter
	activeLoads    metric.Int64UpDownCounter
	loadDuration   metric.Float64Histogram
	loadWaiters    metric.Int64Histogram
	deferred       metric.Int64Counter
	waiterFailures metric.Int64Counter

	attributes []attribute.KeyValue
}

var _ valuecache.Observer = (*Observer)(nil)

// New creates an Observer with instruments from meter.
// A nil meter means the global meter provider.
func New(meter metric.Meter, opts ...Option) (*Observer, error) {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	o := &Observer{attributes: cfg.attributes}
	var err error
	if o.reads, err = meter.Int64Counter(ReadsMetric,
		metric.WithDescription("Number of cache reads by result"),
	); err != nil {
		return nil, fmt.Errorf("failed to create %s metric: %w", ReadsMetric, err)
	}
	if o.loads, err = meter.Int64Counter(LoadsMetric,
		metric.WithDescription("Number of completed loads by outcome"),
	); err != nil {
		return nil, fmt.Errorf("failed to create %s metric: %w", LoadsMetric, err)
	}
	if o.activeLoads, err = meter.Int64UpDownCounter(ActiveLoadsMetric,
		metric.WithDescription("Number of loads in flight"),
	); err != nil {
		return nil, fmt.Errorf("failed to create %s metric: %w", ActiveLoadsMetric, err)
	}
	if o.loadDuration, err = meter.Float64Histogram(LoadDurationMetric,
		metric.WithDescription("Time taken by loads"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create %s metric: %w", LoadDurationMetric, err)
	}
	if o.loadWaiters, err = meter.Int64Histogram(LoadWaitersMetric,
		metric.WithDescription("Number of callers notified of a load outcome"),
	); err != nil {
		return nil, fmt.Errorf("failed to create %s metric: %w", LoadWaitersMetric, err)
	}
	if o.deferred, err = meter.Int64Counter(DeferredMetric,
		metric.WithDescription("Number of background refreshes put off by a load in flight"),
	); err != nil {
		return nil, fmt.Errorf("failed to create %s metric: %w", DeferredMetric, err)
	}
	if o.waiterFailures, err = meter.Int64Counter(WaiterFailuresMetric,
		metric.WithDescription("Number of callers that could not be served by reason"),
	); err != nil {
		return nil, fmt.Errorf("failed to create %s metric: %w", WaiterFailuresMetric, err)
	}
	return o, nil
}

// Observe records the event.
func (o *Observer) Observe(e valuecache.EventData) {
	ctx := context.Background()
	switch e.Event {
	case valuecache.EventHit, valuecache.EventStale, valuecache.EventEmpty, valuecache.EventMiss:
		o.reads.Add(ctx, 1, o.with(attribute.String("result", e.Event.String())))

	case valuecache.EventLoadStart:
		o.activeLoads.Add(ctx, 1, o.with())

	case valuecache.EventLoadSuccess, valuecache.EventLoadFailure:
		outcome := "success"
		if e.Event == valuecache.EventLoadFailure {
			outcome = "failure"
		}
		attrs := o.with(attribute.String("outcome", outcome))
		o.activeLoads.Add(ctx, -1, o.with())
		o.loads.Add(ctx, 1, attrs)
		o.loadDuration.Record(ctx, e.Duration.Seconds(), attrs)
		o.loadWaiters.Record(ctx, int64(e.Waiters), attrs)

	case valuecache.EventRefreshDeferred:
		o.deferred.Add(ctx, 1, o.with())

	case valuecache.EventWaiterFault:
		o.waiterFailures.Add(ctx, 1, o.with(attribute.String("reason", "fault")))

	case valuecache.EventWaiterRejected:
		o.waiterFailures.Add(ctx, 1, o.with(attribute.String("reason", "rejected")))
	}
}

func (o *Observer) with(attrs ...attribute.KeyValue) metric.MeasurementOption {
	if len(attrs) == 0 {
		return metric.WithAttributes(o.attributes...)
	}
	return metric.WithAttributes(append(attrs, o.attributes...)...)
}
