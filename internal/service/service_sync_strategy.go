package service

import (
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/pocketplan/pocketsync/models"
)

// syncStrategy is the per-cycle plan derived from the current network tier.
type syncStrategy struct {
	maxOps        int
	compress      bool
	deferredTypes []string
}

// strategyForTier maps a tier to batch size, compression, and which entity
// types wait for a better connection. deferredTypes lists the low-priority
// types (applied only on poor links).
func strategyForTier(tier models.NetworkTier, deferredTypes []string) syncStrategy {
	switch tier {
	case models.TierExcellent:
		return syncStrategy{maxOps: 50}
	case models.TierGood:
		return syncStrategy{maxOps: 50, compress: false}
	case models.TierFair:
		return syncStrategy{maxOps: 20, compress: true}
	case models.TierPoor:
		return syncStrategy{maxOps: 5, compress: true, deferredTypes: deferredTypes}
	default:
		return syncStrategy{}
	}
}

// backoffState holds the exponential retry schedule applied after transport
// failures. A successful cycle resets it.
type backoffState struct {
	base    time.Duration
	cap     time.Duration
	backoff retry.Backoff
	next    time.Duration
}

func newBackoffState(base, cap time.Duration) *backoffState {
	if base <= 0 {
		base = 2 * time.Second
	}
	if cap <= 0 {
		cap = 5 * time.Minute
	}
	b := &backoffState{base: base, cap: cap}
	b.Reset()
	return b
}

func (b *backoffState) Reset() {
	backoff := retry.NewExponential(b.base)
	backoff = retry.WithCappedDuration(b.cap, backoff)
	backoff = retry.WithJitterPercent(20, backoff)
	b.backoff = backoff
	b.next = 0
}

// Advance moves to the next delay in the schedule and returns it.
func (b *backoffState) Advance() time.Duration {
	delay, stop := b.backoff.Next()
	if stop {
		delay = b.cap
	}
	b.next = delay
	return delay
}

// Pending returns the delay chosen by the last Advance, zero after a Reset.
func (b *backoffState) Pending() time.Duration {
	return b.next
}
