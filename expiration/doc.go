// Package expiration provides policies that decide when a cached value becomes stale.
//
// A ValueCache asks its Policy whether the value loaded at some point in time is still
// fresh, by passing the current time and the time at which the value's TTL runs out.
// GeneralPolicy is the default. NeverPolicy keeps a loaded value fresh forever, so only
// background refresh replaces it. EarlyPolicy lets values go stale a little before their
// TTL runs out, at random, which spreads refreshes of caches that were filled together.
package expiration
