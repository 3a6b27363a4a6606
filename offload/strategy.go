// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package offload

import (
	"fmt"
	"time"

	"github.com/gogama/reqflow"
)

// A Strategy runs each stage of a request execution on a worker pool.
// Every primitive returns a *Future; callers block only when and where
// they choose to Wait.
type Strategy struct {
	pool *Pool
}

// NewStrategy returns a strategy scheduling on the given pool.
func NewStrategy(pool *Pool) (*Strategy, error) {
	if pool == nil {
		return nil, fmt.Errorf("reqflow/offload: strategy needs a pool: %w", reqflow.ErrUnsupported)
	}
	return &Strategy{pool: pool}, nil
}

// Send sends the request on a pool worker. If the client itself
// returns a pending *Future, the continuation is chained onto it
// rather than waited out, so the worker slot is released while the
// inner send is in flight; a Client sharing this strategy's pool needs
// that slot for the send itself. Either way cb always observes a
// settled value and exactly one of cb.OnSuccess and cb.OnFailure runs.
func (s *Strategy) Send(client reqflow.Client, request interface{}, cb reqflow.SendCallback) (interface{}, error) {
	f := newFuture()
	s.pool.Submit(func() (interface{}, error) {
		v, err := client.Send(request)
		if inner, ok := v.(*Future); ok && err == nil {
			inner.OnComplete(func(v interface{}, err error) {
				f.complete(resumeSend(cb, v, err))
			})
			return nil, nil
		}
		f.complete(resumeSend(cb, v, err))
		return nil, nil
	})
	return f, nil
}

func resumeSend(cb reqflow.SendCallback, v interface{}, err error) (interface{}, error) {
	if err != nil {
		return cb.OnFailure(err)
	}
	return cb.OnSuccess(v)
}

// Sleep parks the pause on a timer, not on a pool worker, and
// continues through cb when the timer fires. Worker slots stay free
// for sends and callbacks while executions back off.
func (s *Strategy) Sleep(d time.Duration, cb reqflow.SleepCallback) (interface{}, error) {
	f := newFuture()
	time.AfterFunc(d, func() {
		f.complete(cb.OnSuccess())
	})
	return f, nil
}

// Finish wraps the terminal response in an already-completed future.
func (s *Strategy) Finish(response interface{}) (interface{}, error) {
	return Resolved(response), nil
}

// Fail wraps the terminal error in an already-completed future. The
// error reaches the caller through Future.Wait, not through the
// primitive's error return.
func (s *Strategy) Fail(err error) (interface{}, error) {
	return Failed(err), nil
}

// Execute starts the executable on a pool worker and returns a future
// for its terminal result.
func (s *Strategy) Execute(ex reqflow.Executable) (interface{}, error) {
	return s.pool.Submit(ex.Execute), nil
}
