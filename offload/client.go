// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package offload

import (
	"fmt"

	"github.com/gogama/reqflow"
	"github.com/gogama/reqflow/clienterr"
)

// A Client wraps a blocking transport adapter so that its sends and
// callback applications run on a worker pool and return *Future
// values. Pair it with a Strategy on the same pool.
type Client struct {
	inner reqflow.Client
	pool  *Pool
}

// NewClient wraps inner for offloaded use. A nil inner means the
// process-wide default transport adapter; a nil pool is an error.
func NewClient(inner reqflow.Client, pool *Pool) (*Client, error) {
	if pool == nil {
		return nil, fmt.Errorf("reqflow/offload: client needs a pool: %w", reqflow.ErrUnsupported)
	}
	if inner == nil {
		inner = reqflow.DefaultClient()
		if inner == nil {
			return nil, fmt.Errorf("reqflow/offload: no default transport adapter: %w", reqflow.ErrUnsupported)
		}
	}
	return &Client{inner: inner, pool: pool}, nil
}

// Send performs the exchange on a pool worker and returns a pending
// *Future for the inner adapter's result.
func (c *Client) Send(request interface{}) (interface{}, error) {
	return c.pool.Submit(func() (interface{}, error) {
		return c.inner.Send(request)
	}), nil
}

// ApplyCallback applies cb on a pool worker and returns a pending
// *Future for the transformed response.
func (c *Client) ApplyCallback(cb reqflow.Callback, response interface{}) (interface{}, error) {
	return c.pool.Submit(func() (interface{}, error) {
		return c.inner.ApplyCallback(cb, response)
	}), nil
}

// Close drains the pool, then closes the inner adapter. Work in flight
// completes before the transport session goes away.
func (c *Client) Close() error {
	c.pool.Wait()
	return c.inner.Close()
}

// Errors returns the inner adapter's taxonomy table.
func (c *Client) Errors() *clienterr.Table {
	return c.inner.Errors()
}
