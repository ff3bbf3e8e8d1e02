// Package valuecache provides a cache for a single value that is expensive to produce.
//
// A ValueCache wraps a Loader and keeps the last value it produced together with the
// time it was produced. Reads are served from memory while the value is fresh. Once
// the TTL runs out, the next read triggers a refresh, and every read arriving while
// that refresh is in flight shares it: the Loader never runs concurrently with itself.
//
//	cache, err := valuecache.New[*Config](valuecache.LoaderFunc[*Config](fetchConfig),
//		valuecache.WithTTL[*Config](time.Minute),
//		valuecache.WithRefreshInterval[*Config](30*time.Second),
//	)
//	if err != nil {
//		return err
//	}
//	cfg, err := cache.GetValue(ctx)
//
// Reads come in three forms. Get returns a future.Future, GetFunc takes callbacks and
// GetValue blocks. WithWait(false) turns a read of an expired value into a
// stale-while-revalidate read, and GetLast never waits once something has been cached.
//
// A failed load is delivered, wrapped in *LoadError, to the callers that waited for it;
// the cached value stays as it was. With WithRefreshInterval the cache also refreshes
// itself in the background, scheduling the next refresh whenever a load settles.
package valuecache
