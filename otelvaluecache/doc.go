// Package otelvaluecache records ValueCache events as OpenTelemetry metrics.
//
// An Observer is plugged into a cache with valuecache.WithObserver:
//
//	observer, err := otelvaluecache.New(otel.Meter("myapp"), otelvaluecache.WithCacheName("config"))
//	if err != nil {
//		return err
//	}
//	cache, err := valuecache.New[*Config](loader, valuecache.WithObserver[*Config](observer))
//
// A nil meter falls back to the global meter provider set with otel.SetMeterProvider.
package otelvaluecache
