// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/reqflow"
)

// A Template is a request template implementing retry with backoff.
// After a failed attempt it consults its Decider and, when a retry is
// allowed, redirects the execution into a pause of the Waiter's chosen
// duration followed by a fresh attempt.
//
// A Template tracks the attempt count of one execution: construct a
// new one per execution rather than sharing a Template across
// concurrent executions.
type Template struct {
	reqflow.BaseTemplate
	decider Decider
	waiter  Waiter
	attempt Attempt
}

// NewTemplate constructs a retry template from a decider and a waiter.
// A nil decider means DefaultDecider and a nil waiter means
// DefaultWaiter.
func NewTemplate(decider Decider, waiter Waiter) *Template {
	if decider == nil {
		decider = DefaultDecider
	}
	if waiter == nil {
		waiter = DefaultWaiter
	}
	return &Template{decider: decider, waiter: waiter}
}

// BeforeRequest records the start of the logical request on the first
// attempt and otherwise leaves the default behavior in place.
func (t *Template) BeforeRequest(request interface{}) reqflow.Transition {
	if t.attempt.Start.IsZero() {
		t.attempt.Start = time.Now()
	}
	t.attempt.Request = request
	return reqflow.Transition{}
}

// AfterError retries the failed attempt when the decider allows it,
// pausing first for the waiter's chosen backoff. When the decider
// declines, the default behavior stands and the execution fails with
// the attempt's error.
func (t *Template) AfterError(request interface{}, err error) reqflow.Transition {
	t.attempt.Request = request
	t.attempt.Err = err
	if !t.decider.Decide(&t.attempt) {
		return reqflow.Transition{}
	}
	d := t.waiter.Wait(&t.attempt)
	t.attempt.Number++
	return reqflow.Retry(d)
}

// Attempts returns the number of attempts started so far in the
// execution this template is tracking.
func (t *Template) Attempts() int {
	return t.attempt.Number + 1
}
