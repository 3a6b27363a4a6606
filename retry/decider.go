// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"errors"
	"time"

	"github.com/gogama/reqflow/clienterr"
)

// An Attempt is the retry-relevant view of a request execution at the
// moment a retry decision is made: which attempt just failed, when the
// logical request started, and what came back.
type Attempt struct {
	// Number is the zero-based index of the attempt that just
	// finished. It is also the number of retries already done.
	Number int
	// Start is when the first attempt of the logical request was
	// prepared.
	Start time.Time
	// Request is the request value being executed.
	Request interface{}
	// Err is the translated failure of the attempt that just finished.
	Err error
}

// A Decider decides if a retry should be done.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// Use the built-in constructors Times, Before, and ErrClass; or
// implement your own. Use DeciderFunc to convert an ordinary function
// into a Decider, and to compose deciders logically using
// DeciderFunc.And and DeciderFunc.Or.
type Decider interface {
	Decide(a *Attempt) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface,
// and also provides the logical composition methods And and Or.
//
// Every DeciderFunc must be safe for concurrent use by multiple
// goroutines.
type DeciderFunc func(a *Attempt) bool

// DefaultTimes is the number of times DefaultDecider will retry.
const DefaultTimes = 5

// DefaultDecider is a general-purpose retry decider suitable for
// common use cases. It allows up to DefaultTimes retries (i.e. up to
// 6 total attempts) of failures in the Connection and ServerTimeout
// taxonomy classes, the classes with a real prospect of succeeding
// on a later attempt.
var DefaultDecider = Times(DefaultTimes).And(ErrClass(clienterr.Connection, clienterr.ServerTimeout))

// Decide returns true if a retry should be done, and false otherwise,
// after examining the current attempt state.
func (f DeciderFunc) Decide(a *Attempt) bool {
	return f(a)
}

// And composes two retry deciders into a new decider which returns
// true if both sub-deciders return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(a *Attempt) bool {
		return f(a) && g(a)
	}
}

// Or composes two retry deciders into a new decider which returns
// true if either of the two sub-deciders returns true, but false if
// they both return false.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(a *Attempt) bool {
		return f(a) || g(a)
	}
}

// Times constructs a retry decider which allows up to n retries. The
// returned decider returns true while the attempt index a.Number is
// less than n, and false otherwise.
func Times(n int) DeciderFunc {
	return func(a *Attempt) bool {
		return a.Number < n
	}
}

// Before constructs a retry decider allowing retries until a certain
// amount of time has elapsed since the start of the logical request.
// The returned decider returns true while the elapsed duration is less
// than d, and false afterward.
func Before(d time.Duration) DeciderFunc {
	return func(a *Attempt) bool {
		return time.Since(a.Start) < d
	}
}

// ErrClass constructs a retry decider allowing retries based on the
// taxonomy class of the attempt failure. The decider returns true if
// the failure belongs to any of the classes cs, either directly or
// through a subclass.
func ErrClass(cs ...clienterr.Class) DeciderFunc {
	cs2 := make([]clienterr.Class, len(cs))
	copy(cs2, cs)
	return func(a *Attempt) bool {
		for _, c := range cs2 {
			if errors.Is(a.Err, c) {
				return true
			}
		}
		return false
	}
}
