// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// A Limiter admits or delays request attempts. Delay either claims a
// slot and returns zero, meaning the attempt may proceed now, or
// returns a positive duration to pause before asking again. A delayed
// call claims nothing, so the pause costs no capacity.
//
// Implementations of Limiter must be safe for concurrent use by
// multiple goroutines.
type Limiter interface {
	Delay() time.Duration
}

// NewTokenBucket constructs a token-bucket limiter admitting sustained
// attempts at r per second with bursts of up to b.
func NewTokenBucket(r float64, b int) Limiter {
	if b < 1 {
		panic("reqflow/ratelimit: burst must be at least 1")
	}
	return &tokenBucket{limiter: rate.NewLimiter(rate.Limit(r), b)}
}

type tokenBucket struct {
	limiter *rate.Limiter
}

func (tb *tokenBucket) Delay() time.Duration {
	r := tb.limiter.Reserve()
	if !r.OK() {
		// Unreachable for burst >= 1 with no reservation deadline.
		panic("reqflow/ratelimit: reservation failed")
	}
	d := r.Delay()
	if d > 0 {
		r.Cancel()
		return d
	}
	return 0
}

// NewWindow constructs a sliding-window limiter admitting at most max
// attempts per period.
func NewWindow(max int, period time.Duration) Limiter {
	if max < 1 {
		panic("reqflow/ratelimit: max must be at least 1")
	}
	if period < 1 {
		panic("reqflow/ratelimit: period must be positive")
	}
	return &window{
		antiPeriod: -period,
		a:          make([]time.Time, max),
	}
}

// window is a ring buffer of the admission times still inside the
// sliding period.
type window struct {
	lock       sync.Mutex
	antiPeriod time.Duration
	a          []time.Time
	start, len int
}

func (w *window) Delay() time.Duration {
	w.lock.Lock()
	defer w.lock.Unlock()
	now := time.Now()
	cutoff := now.Add(w.antiPeriod)
	// Remove all samples admitted at or before cutoff.
	for w.len > 0 && !cutoff.Before(w.a[w.start]) {
		w.start = (w.start + 1) % len(w.a)
		w.len--
	}
	// If there's room for the sample, claim the slot.
	if w.len < len(w.a) {
		i := (w.start + w.len) % len(w.a)
		w.a[i] = now
		w.len++
		return 0
	}
	// Otherwise, wait until the oldest sample leaves the window.
	return w.a[w.start].Sub(cutoff)
}
