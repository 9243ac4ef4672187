// Package ratelimit contains the per-actor message throttle. One inbound
// message costs one point; actors that spend their points inside the window
// are blocked for a fixed cooldown, independent of the window.
package ratelimit

import (
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// Decision is the outcome of an Allow call.
type Decision struct {
	OK bool

	// RetryAfter is how long the actor must wait, zero when OK.
	RetryAfter time.Duration
}

type bucket struct {
	windowStart  time.Time
	spent        int
	blockedUntil time.Time
}

// Limiter is an in-memory token bucket keyed by actor. All Telegram traffic
// for one actor flows through one coordinator instance, so no distributed
// state is needed.
type Limiter struct {
	points int
	window time.Duration
	block  time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[kernel.ActorID]*bucket
}

// NewLimiter creates a limiter allowing points messages per window, blocking
// for block after the points are spent.
func NewLimiter(points int, window, block time.Duration) *Limiter {
	return &Limiter{
		points:  points,
		window:  window,
		block:   block,
		now:     time.Now,
		buckets: map[kernel.ActorID]*bucket{},
	}
}

// WithClock overrides the time source. Used by tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow spends one point for the actor. The point is consumed only when the
// call is allowed; blocked calls do not extend the block.
func (l *Limiter) Allow(actorID kernel.ActorID) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	b, ok := l.buckets[actorID]
	if !ok {
		b = &bucket{windowStart: now}
		l.buckets[actorID] = b
	}

	if now.Before(b.blockedUntil) {
		return Decision{RetryAfter: b.blockedUntil.Sub(now)}
	}

	if now.Sub(b.windowStart) >= l.window {
		b.windowStart = now
		b.spent = 0
	}

	b.spent++
	if b.spent > l.points {
		b.blockedUntil = now.Add(l.block)
		b.windowStart = now
		b.spent = 0
		return Decision{RetryAfter: l.block}
	}

	return Decision{OK: true}
}

// Reset clears the actor's bucket, lifting any block. Operator action.
func (l *Limiter) Reset(actorID kernel.ActorID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, actorID)
}

// Prune drops buckets idle past the block and window horizons so the map does
// not grow with every actor ever seen. Called by the sweep job.
func (l *Limiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	horizon := l.window
	if l.block > horizon {
		horizon = l.block
	}

	pruned := 0
	for id, b := range l.buckets {
		if now.Sub(b.windowStart) >= horizon && !now.Before(b.blockedUntil) {
			delete(l.buckets, id)
			pruned++
		}
	}
	return pruned
}
