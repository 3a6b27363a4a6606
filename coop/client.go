// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"fmt"

	"github.com/gogama/reqflow"
	"github.com/gogama/reqflow/clienterr"
	"github.com/gogama/reqflow/offload"
)

// A Client wraps a blocking transport adapter for use on a loop. Each
// send runs on a worker pool so the loop is never blocked on I/O; the
// result comes back to the loop as a *Promise. Pair it with a Strategy
// on the same loop.
type Client struct {
	inner reqflow.Client
	loop  *Loop
	pool  *offload.Pool
}

// NewClient wraps inner for cooperative use. A nil inner means the
// process-wide default transport adapter; a nil pool means a private
// pool of offload.DefaultWorkers workers; a nil loop is an error.
func NewClient(inner reqflow.Client, loop *Loop, pool *offload.Pool) (*Client, error) {
	if loop == nil {
		return nil, fmt.Errorf("reqflow/coop: client needs a loop: %w", reqflow.ErrUnsupported)
	}
	if inner == nil {
		inner = reqflow.DefaultClient()
		if inner == nil {
			return nil, fmt.Errorf("reqflow/coop: no default transport adapter: %w", reqflow.ErrUnsupported)
		}
	}
	if pool == nil {
		pool = offload.NewPool(offload.DefaultWorkers)
	}
	return &Client{inner: inner, loop: loop, pool: pool}, nil
}

// Send performs the exchange on a pool worker and returns a *Promise
// that resolves on the loop with the inner adapter's result.
func (c *Client) Send(request interface{}) (interface{}, error) {
	p := NewPromise(c.loop)
	f := c.pool.Submit(func() (interface{}, error) {
		return c.inner.Send(request)
	})
	f.OnComplete(p.Complete)
	return p, nil
}

// ApplyCallback applies cb to response. A pending *Promise response is
// chained rather than awaited, so ApplyCallback is safe to call from a
// loop task.
func (c *Client) ApplyCallback(cb reqflow.Callback, response interface{}) (interface{}, error) {
	if p, ok := response.(*Promise); ok {
		return p.Then(cb, nil), nil
	}
	return cb(response)
}

// WrapCallback lifts cb into promise form: the returned callback
// always yields a *Promise on the client's loop, whether cb computes
// its result directly or hands back a pending promise of its own.
func (c *Client) WrapCallback(cb reqflow.Callback) reqflow.Callback {
	return func(response interface{}) (interface{}, error) {
		p := NewPromise(c.loop)
		p.Complete(cb(response))
		return p, nil
	}
}

// Close drains the worker pool, then closes the inner adapter.
func (c *Client) Close() error {
	c.pool.Wait()
	return c.inner.Close()
}

// Errors returns the inner adapter's taxonomy table.
func (c *Client) Errors() *clienterr.Table {
	return c.inner.Errors()
}
