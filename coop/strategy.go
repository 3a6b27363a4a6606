// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"fmt"
	"time"

	"github.com/gogama/reqflow"
)

// A Strategy runs the request lifecycle as loop tasks. Pauses never
// occupy the loop: a sleeping execution parks on a timer while other
// executions interleave.
type Strategy struct {
	loop *Loop
}

// NewStrategy returns a strategy scheduling on the given loop.
func NewStrategy(loop *Loop) (*Strategy, error) {
	if loop == nil {
		return nil, fmt.Errorf("reqflow/coop: strategy needs a loop: %w", reqflow.ErrUnsupported)
	}
	return &Strategy{loop: loop}, nil
}

// Send sends the request and continues through cb. A client paired
// with this strategy returns a *Promise from Send; the continuation is
// chained onto it and runs as a loop task once the exchange settles. A
// blocking client works too, at the cost of stalling the loop for the
// duration of the exchange.
func (s *Strategy) Send(client reqflow.Client, request interface{}, cb reqflow.SendCallback) (interface{}, error) {
	v, err := client.Send(request)
	if err != nil {
		return cb.OnFailure(err)
	}
	if p, ok := v.(*Promise); ok {
		return p.Then(cb.OnSuccess, cb.OnFailure), nil
	}
	return cb.OnSuccess(v)
}

// Sleep parks the execution on a timer and returns immediately. The
// continuation runs as a loop task once d has elapsed.
func (s *Strategy) Sleep(d time.Duration, cb reqflow.SleepCallback) (interface{}, error) {
	p := NewPromise(s.loop)
	s.loop.After(d, func() {
		p.Complete(cb.OnSuccess())
	})
	return p, nil
}

// Finish returns the terminal response unchanged. A pending chain
// upstream already wraps it in whatever promise the caller is holding.
func (s *Strategy) Finish(response interface{}) (interface{}, error) {
	return response, nil
}

// Fail propagates the terminal error.
func (s *Strategy) Fail(err error) (interface{}, error) {
	return nil, err
}

// Execute schedules the executable as a loop task and returns a
// promise for its terminal result.
func (s *Strategy) Execute(ex reqflow.Executable) (interface{}, error) {
	p := NewPromise(s.loop)
	s.loop.Submit(func() {
		p.Complete(ex.Execute())
	})
	return p, nil
}
