// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"sync"
	"time"
)

// A Waiter decides how long to pause before the next attempt of a
// failed request. It is consulted only after the Decider has already
// voted to retry.
//
// Implementations must be safe for concurrent use by multiple
// goroutines, since one Waiter value is typically shared across every
// execution using the same policy.
type Waiter interface {
	Wait(a *Attempt) time.Duration
}

// DefaultWaiter is the default retry wait policy: jittered exponential
// backoff starting at 50 milliseconds and capped at 1 second.
var DefaultWaiter = NewExpWaiter(50*time.Millisecond, 1*time.Second, time.Now())

// NewFixedWaiter constructs a Waiter that pauses for the same duration
// before every retry, regardless of attempt number.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *Attempt) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter implementing exponential backoff
// with optional jitter, following the "Full Jitter" approach from
// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter.
//
// The ceiling for attempt n is base doubled n times, saturating at
// max. Both base and max must be positive and max must be at least
// base.
//
// Jitter selects a uniformly random wait in [0, ceiling). Pass nil to
// disable jitter and wait for the full ceiling every time. Otherwise
// pass a seed (time.Time, int or int64), a rand.Source, or a
// *rand.Rand to draw the random waits from.
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("reqflow/retry: base must be positive")
	}
	if max < base {
		panic("reqflow/retry: max must be at least base")
	}
	return &expWaiter{
		base: base,
		max:  max,
		rand: jitterRand(jitter),
	}
}

type expWaiter struct {
	base time.Duration
	max  time.Duration
	rand *rand.Rand
	lock sync.Mutex
}

func (w *expWaiter) Wait(a *Attempt) time.Duration {
	ceil := w.ceiling(a.Number)
	if w.rand == nil || ceil <= 0 {
		return ceil
	}
	w.lock.Lock()
	defer w.lock.Unlock()
	return time.Duration(w.rand.Int63n(int64(ceil)))
}

func (w *expWaiter) ceiling(n int) time.Duration {
	c := w.base
	for i := 0; i < n; i++ {
		c <<= 1
		// A wrapped shift goes negative, so the second test also
		// saturates on overflow.
		if c >= w.max || c < w.base {
			return w.max
		}
	}
	return c
}

func jitterRand(jitter interface{}) *rand.Rand {
	switch j := jitter.(type) {
	case nil:
		return nil
	case *rand.Rand:
		if j == nil {
			panic("reqflow/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		return rand.New(j)
	case time.Time:
		return rand.New(rand.NewSource(j.UnixNano()))
	case int:
		return rand.New(rand.NewSource(int64(j)))
	case int64:
		return rand.New(rand.NewSource(j))
	default:
		panic("reqflow/retry: invalid jitter type")
	}
}
