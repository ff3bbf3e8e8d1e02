package valuecache

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrConfiguration is the base of every error returned by New for a bad configuration.
	ErrConfiguration = errors.New("invalid value cache configuration")

	ErrOptionsRequired = fmt.Errorf("%w: options are required", ErrConfiguration)
	ErrLoaderRequired  = fmt.Errorf("%w: load function is required", ErrConfiguration)
	ErrInvalidOption   = fmt.Errorf("%w: invalid option", ErrConfiguration)
)

var (
	// ErrTooManyWaiters is delivered to a caller that would exceed the WithMaxWaiters bound.
	ErrTooManyWaiters = errors.New("too many callers are waiting for the in-flight load")

	// ErrLoaderExited is the cause of a LoadError when the loader called runtime.Goexit.
	ErrLoaderExited = errors.New("loader called runtime.Goexit")

	// ErrNilFuture is returned by a FutureLoader whose function returned a nil Future.
	ErrNilFuture = errors.New("loader returned a nil future")
)

// LoadError is delivered to every caller waiting on a load that failed.
// The cached value, if any, is left untouched by the failure.
type LoadError struct {
	// StartedAt is the time the failed load began.
	StartedAt time.Time

	// Err is the loader's error, a *panics.ErrRecovered for a panicking loader, or ErrLoaderExited.
	Err error
}

func (e *LoadError) Error() string {
	return "value cache load failed: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
