// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqflow

import (
	"context"
	"sync"
	"time"
)

// An ExecutionContext is the state machine driving one request from
// creation to completion. It is bound to exactly one Client, one
// ExecutionStrategy, and one RequestTemplate, and owns exactly one
// live RequestState at a time; state replacement swaps the whole
// state value, so a hook observing the context never sees a partially
// updated state.
//
// Create an ExecutionContext per logical request with NewExecution and
// discard it after consuming the terminal result. Drive it either with
// Run, which hands it to the strategy, or by stepping Execute directly.
type ExecutionContext struct {
	client   Client
	strategy ExecutionStrategy
	template RequestTemplate
	callback Callback

	lock    sync.Mutex
	state   RequestState
	attempt int
	start   time.Time
	end     time.Time
	data    context.Context
}

// NewExecution creates the execution context for one request. The
// client and strategy must be non-nil and must belong to the same
// scheduling model; template may be nil for the default lifecycle.
// The request is owned by the caller and treated as immutable and
// opaque from here on.
func NewExecution(client Client, strategy ExecutionStrategy, template RequestTemplate, request interface{}) *ExecutionContext {
	if client == nil {
		panic("reqflow: nil client")
	}
	if strategy == nil {
		panic("reqflow: nil strategy")
	}
	if template == nil {
		template = BaseTemplate{}
	}
	return &ExecutionContext{
		client:   client,
		strategy: strategy,
		template: template,
		state:    newCreated(request),
	}
}

// Execute is the language-independent global Do: it creates an
// execution context for request and drives it to completion under the
// given strategy.
func Execute(client Client, strategy ExecutionStrategy, template RequestTemplate, request interface{}) (interface{}, error) {
	return NewExecution(client, strategy, template, request).Run()
}

// SetCallback installs a response transform applied, through the
// client's ApplyCallback hook point, when the execution finishes.
// Install callbacks before starting the execution.
func (c *ExecutionContext) SetCallback(cb Callback) {
	c.callback = cb
}

// Run drives the execution to completion under the bound strategy's
// scheduling model and returns the terminal result: the response (or
// whatever pending value the strategy's Execute yields) or the
// propagated failure.
func (c *ExecutionContext) Run() (interface{}, error) {
	return c.strategy.Execute(c)
}

// Execute performs the next pending step of the execution and returns
// either the value threaded back by the strategy's continuation or the
// terminal result. Repeated stepping is how a driver interleaves other
// work between steps; most callers want Run instead.
func (c *ExecutionContext) Execute() (interface{}, error) {
	return c.current().execute(c)
}

// State returns the name of the current request state.
func (c *ExecutionContext) State() string {
	return c.current().Name()
}

// Attempt returns the zero-based number of the most recent send
// attempt, or -1 before the first attempt starts.
func (c *ExecutionContext) Attempt() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.attempt - 1
}

// Started indicates whether the first send attempt has started. If it
// has, Start is non-zero.
func (c *ExecutionContext) Started() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.start != (time.Time{})
}

// Ended indicates whether the execution reached a terminal state.
func (c *ExecutionContext) Ended() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.end != (time.Time{})
}

// SetValue stores arbitrary data in the execution context, for example
// so one template hook can pass information to a later one.
//
// The key follows the same rules as the key parameter of
// context.WithValue: non-nil, comparable, and not a built-in type, to
// avoid collisions between unrelated templates.
func (c *ExecutionContext) SetValue(key, value interface{}) {
	c.lock.Lock()
	defer c.lock.Unlock()
	ctx := c.data
	if ctx == nil {
		ctx = context.Background()
	}
	c.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (c *ExecutionContext) Value(key interface{}) interface{} {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.data == nil {
		return nil
	}
	return c.data.Value(key)
}

func (c *ExecutionContext) current() RequestState {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}

func (c *ExecutionContext) swap(next RequestState) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.state = next
}

func (c *ExecutionContext) markAttempt() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.start == (time.Time{}) {
		c.start = time.Now()
	}
	c.attempt++
}

func (c *ExecutionContext) markEnd() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.end == (time.Time{}) {
		c.end = time.Now()
	}
}

// beforeRequest runs the template's BeforeRequest hook and advances
// the machine, sending the request unless the hook overrides.
func (c *ExecutionContext) beforeRequest(request interface{}) (interface{}, error) {
	return c.advance(c.template.BeforeRequest(request), send(request))
}

// afterResponse runs the template's AfterResponse hook and advances
// the machine, finishing with the response unless the hook overrides.
func (c *ExecutionContext) afterResponse(request, response interface{}) (interface{}, error) {
	return c.advance(c.template.AfterResponse(request, response), Finish(response))
}

// afterError runs the template's AfterError hook and advances the
// machine, failing with the error unless the hook overrides.
func (c *ExecutionContext) afterError(request interface{}, err error) (interface{}, error) {
	return c.advance(c.template.AfterError(request, err), Fail(err))
}

// advance interprets a hook's transition against the current state and
// continues the execution in the resulting state. An
// *IllegalTransitionError from the state propagates immediately: it is
// a template defect, not a runtime failure, and is never routed back
// through the template.
func (c *ExecutionContext) advance(t, def Transition) (interface{}, error) {
	if t.kind == transitionNone {
		t = def
	}
	cur := c.current()
	var next RequestState
	var err error
	switch t.kind {
	case transitionSend:
		next, err = cur.Send(t.response)
	case transitionRetry:
		next, err = cur.Sleep(t.delay)
	case transitionFinish:
		next, err = cur.Finish(t.response)
	case transitionFail:
		next, err = cur.Fail(t.err)
	}
	if err != nil {
		return nil, err
	}
	c.swap(next)
	return c.Execute()
}

// sendCallback resumes the execution after a send: through the
// template's AfterResponse hook on success, AfterError on failure.
type sendCallback struct {
	c       *ExecutionContext
	request interface{}
}

func (cb *sendCallback) OnSuccess(response interface{}) (interface{}, error) {
	return cb.c.afterResponse(cb.request, response)
}

func (cb *sendCallback) OnFailure(err error) (interface{}, error) {
	return cb.c.afterError(cb.request, err)
}

// sleepCallback resumes the execution after a pause. A pause that
// fails indicates the scheduler itself broke, so the failure goes
// straight to the Failed state without consulting the template.
type sleepCallback struct {
	c    *ExecutionContext
	next RequestState
}

func (cb *sleepCallback) OnSuccess() (interface{}, error) {
	cb.c.swap(cb.next)
	return cb.c.Execute()
}

func (cb *sleepCallback) OnFailure(err error) (interface{}, error) {
	next, terr := cb.c.current().Fail(err)
	if terr != nil {
		return nil, terr
	}
	cb.c.swap(next)
	return cb.c.Execute()
}
