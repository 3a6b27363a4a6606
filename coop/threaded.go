// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coop

import "github.com/gogama/reqflow"

// A Deferred is a loop-affine operation producing a promise. It must
// run as a loop task.
type Deferred func() *Promise

// A ThreadedResponse carries a response from the loop to a worker
// goroutine. The worker reads the response value freely; operations
// that must run on the loop go through Call, which schedules them
// there and blocks the worker, not the loop, until they settle.
type ThreadedResponse struct {
	response interface{}
	loop     *Loop
}

// Threaded wraps a response for handoff to a worker goroutine.
func (c *Client) Threaded(response interface{}) *ThreadedResponse {
	return &ThreadedResponse{response: response, loop: c.loop}
}

// Unwrap returns the wrapped response value.
func (t *ThreadedResponse) Unwrap() interface{} {
	return t.response
}

// Call runs d as a loop task and blocks the calling worker until the
// resulting promise settles. Never call it from a loop task.
func (t *ThreadedResponse) Call(d Deferred) (interface{}, error) {
	ch := make(chan *Promise, 1)
	t.loop.Submit(func() {
		ch <- d()
	})
	p := <-ch
	return p.Result()
}

// Resolve settles v from the worker: a *Promise is waited out, and any
// other value is returned as is.
func (t *ThreadedResponse) Resolve(v interface{}) (interface{}, error) {
	if p, ok := v.(*Promise); ok {
		return p.Result()
	}
	return v, nil
}

// ThreadedCallback adapts a blocking callback for use with a
// cooperative execution. The callback runs on a pool worker with a
// *ThreadedResponse in hand, so it may block without stalling the
// loop; its result comes back to the loop as a *Promise.
func (c *Client) ThreadedCallback(cb reqflow.Callback) reqflow.Callback {
	return func(response interface{}) (interface{}, error) {
		p := NewPromise(c.loop)
		f := c.pool.Submit(func() (interface{}, error) {
			return cb(c.Threaded(response))
		})
		f.OnComplete(p.Complete)
		return p, nil
	}
}
