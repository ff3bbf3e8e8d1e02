package expiration

import (
	"math/rand/v2"
	"time"
)

// Policy decides whether a cached value is stale.
type Policy interface {
	// IsExpired reports whether a value whose freshness ends at expiresAt is stale at now.
	IsExpired(now, expiresAt time.Time) bool
}

// PolicyFunc is a function type that implements the Policy interface.
type PolicyFunc func(now, expiresAt time.Time) bool

// IsExpired calls the function.
func (f PolicyFunc) IsExpired(now, expiresAt time.Time) bool {
	return f(now, expiresAt)
}

// GeneralPolicy treats a value as stale once now is strictly after expiresAt.
// A value read exactly at expiresAt is still fresh.
type GeneralPolicy struct{}

var _ Policy = GeneralPolicy{}

// IsExpired returns true if now is after expiresAt.
func (GeneralPolicy) IsExpired(now, expiresAt time.Time) bool {
	return now.After(expiresAt)
}

// NeverPolicy never treats a loaded value as stale.
type NeverPolicy struct{}

var _ Policy = NeverPolicy{}

// IsExpired always returns false.
func (NeverPolicy) IsExpired(now, expiresAt time.Time) bool {
	return false
}

// EarlyPolicy may treat a value as stale up to Duration before expiresAt.
type EarlyPolicy struct {
	// Duration is how much earlier the value can go stale.
	Duration time.Duration

	// Percentage is the chance (between 0 and 1) that a check applies the early window.
	Percentage float64

	// Random is the random number generator used to decide.
	// If nil, the default system random generator is used.
	Random *rand.Rand
}

var _ Policy = (*EarlyPolicy)(nil)

// IsExpired behaves like GeneralPolicy with probability 1-Percentage,
// and otherwise checks now+Duration against expiresAt.
func (p *EarlyPolicy) IsExpired(now, expiresAt time.Time) bool {
	if p.randFloat64() >= p.Percentage {
		return now.After(expiresAt)
	}
	return now.Add(p.Duration).After(expiresAt)
}

func (p *EarlyPolicy) randFloat64() float64 {
	if p.Random == nil {
		return rand.Float64()
	}
	return p.Random.Float64()
}
