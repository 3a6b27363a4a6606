// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gogama/reqflow"
	"github.com/gogama/reqflow/clienterr"
	"github.com/gogama/reqflow/request"
)

func init() {
	reqflow.RegisterAdapter(func(session interface{}) reqflow.Client {
		if s, ok := session.(*http.Client); ok {
			return Wrap(s)
		}
		return nil
	})
	reqflow.SetDefaultClient(func() reqflow.Client {
		return New()
	})
}

// A Response is the fully-buffered result of one successful exchange.
// The transport connection is released before the Response is handed
// to the execution, so a Response may be retained indefinitely.
type Response struct {
	// Status is the HTTP status line text, e.g. "200 OK".
	Status string
	// StatusCode is the numeric HTTP status code, e.g. 200.
	StatusCode int
	// Header contains the response header fields.
	Header http.Header
	// Body is the full response body.
	Body []byte
	// Request is the plan whose attempt produced this response.
	Request *request.Plan
}

// An Option configures the http.Client a transport adapter creates on
// behalf of its caller. Options are ignored by Wrap, since a wrapped
// session is configured by whoever created it.
type Option func(*http.Client)

// WithTimeout limits the total time for each attempt, from dialing the
// connection through reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(s *http.Client) {
		s.Timeout = d
	}
}

// WithTransport replaces the round tripper used for each attempt.
func WithTransport(rt http.RoundTripper) Option {
	return func(s *http.Client) {
		s.Transport = rt
	}
}

// A Client adapts a net/http session to the execution framework. The
// request values it sends are *request.Plan, and the response values
// it produces are *Response.
//
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	mu      sync.Mutex
	session *http.Client
	opts    []Option
	owns    bool
}

// New returns a client that owns its transport session. The session is
// created lazily on first send, configured with the given options, and
// released by Close.
func New(opts ...Option) *Client {
	return &Client{opts: opts, owns: true}
}

// Wrap returns a client borrowing a caller-supplied transport session.
// The caller retains ownership: Close never releases a wrapped
// session.
func Wrap(session *http.Client) *Client {
	if session == nil {
		panic("reqflow/nethttp: nil session")
	}
	return &Client{session: session}
}

func (c *Client) httpClient() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		c.session = &http.Client{}
		for _, opt := range c.opts {
			opt(c.session)
		}
	}
	return c.session
}

// Send performs one attempt at a *request.Plan and buffers the result
// into a *Response. Transport errors are translated through the
// adapter's taxonomy table before being returned.
func (c *Client) Send(req interface{}) (interface{}, error) {
	plan, ok := req.(*request.Plan)
	if !ok {
		return nil, fmt.Errorf("reqflow/nethttp: unsupported request type %T (want *request.Plan)", req)
	}
	r := plan.ToRequest(plan.Context())
	resp, err := c.httpClient().Do(r)
	if err != nil {
		return nil, defaultTable.Translate(err)
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, defaultTable.Translate(err)
	}
	return &Response{
		Status:     resp.Status,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Request:    plan,
	}, nil
}

// ApplyCallback applies cb to response on the calling goroutine.
func (c *Client) ApplyCallback(cb reqflow.Callback, response interface{}) (interface{}, error) {
	return cb(response)
}

// Close releases the transport session if this client owns it. The
// session is released exactly once, however many times Close is
// called. A session supplied through Wrap is left untouched.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owns && c.session != nil {
		c.session.CloseIdleConnections()
		c.owns = false
	}
	return nil
}

// Errors returns the net/http taxonomy translation table.
func (c *Client) Errors() *clienterr.Table {
	return defaultTable
}
