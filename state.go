// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqflow

import (
	"fmt"
	"time"
)

// State names reported by ExecutionContext.State and carried inside
// IllegalTransitionError.
const (
	StateCreated  = "Created"
	StatePrepared = "Prepared"
	StateSending  = "Sending"
	StateSleeping = "Sleeping"
	StateFinished = "Finished"
	StateFailed   = "Failed"
)

// An IllegalTransitionError reports an attempt to perform a lifecycle
// transition that is not reachable from the current request state.
//
// It indicates a defect in a RequestTemplate, not a network condition:
// the machine propagates it immediately, without consulting the
// template's AfterError hook and without retry.
type IllegalTransitionError struct {
	// State is the name of the request state the machine was in.
	State string
	// Transition is the name of the attempted transition.
	Transition string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf(
		"reqflow: illegal transition [%s] from request state [%s]: "+
			"this is possibly due to a badly designed RequestTemplate",
		e.Transition, e.State)
}

// A RequestState is one phase of a request's execution lifecycle. Each
// state exclusively owns the data relevant to it: the pending request,
// the in-flight request, the pause duration, the response, or the
// failure.
//
// States are immutable values; a transition produces a fresh state and
// the ExecutionContext swaps it in whole. Transition methods not valid
// in a state return *IllegalTransitionError, never silently no-op.
type RequestState interface {
	// Name returns the state's name.
	Name() string

	// Request returns the request value this state pertains to.
	Request() interface{}

	// Prepare transitions to Prepared with the given request.
	Prepare(request interface{}) (RequestState, error)

	// Send transitions to Sending with the given request.
	Send(request interface{}) (RequestState, error)

	// Sleep transitions to Sleeping for the given duration, resuming
	// at Prepared when the pause elapses.
	Sleep(d time.Duration) (RequestState, error)

	// Finish transitions to Finished with the given response.
	Finish(response interface{}) (RequestState, error)

	// Fail transitions to Failed with the given error.
	Fail(err error) (RequestState, error)

	// execute performs this state's step of the execution.
	execute(c *ExecutionContext) (interface{}, error)
}

// baseState supplies the Name and Request accessors and an
// illegal-transition default for every transition method. Concrete
// states embed it and override only the transitions valid for them.
type baseState struct {
	name    string
	request interface{}
}

func (s *baseState) Name() string { return s.name }

func (s *baseState) Request() interface{} { return s.request }

func (s *baseState) Prepare(interface{}) (RequestState, error) {
	return nil, s.illegal("prepare")
}

func (s *baseState) Send(interface{}) (RequestState, error) {
	return nil, s.illegal("send")
}

func (s *baseState) Sleep(time.Duration) (RequestState, error) {
	return nil, s.illegal("sleep")
}

func (s *baseState) Finish(interface{}) (RequestState, error) {
	return nil, s.illegal("finish")
}

func (s *baseState) Fail(error) (RequestState, error) {
	return nil, s.illegal("fail")
}

func (s *baseState) illegal(transition string) error {
	return &IllegalTransitionError{State: s.name, Transition: transition}
}

// sleepable provides the sleep transition shared by the states that
// allow a template-requested pause: Prepared, Sending, Finished, and
// Failed.
type sleepable struct {
	baseState
}

func (s *sleepable) Sleep(d time.Duration) (RequestState, error) {
	return &sleepingState{
		baseState: baseState{name: StateSleeping, request: s.request},
		delay:     d,
		next:      newPrepared(s.request),
	}, nil
}

type createdState struct {
	baseState
}

func newCreated(request interface{}) *createdState {
	return &createdState{baseState{name: StateCreated, request: request}}
}

func (s *createdState) Prepare(request interface{}) (RequestState, error) {
	return newPrepared(request), nil
}

func (s *createdState) execute(c *ExecutionContext) (interface{}, error) {
	next, err := s.Prepare(s.request)
	if err != nil {
		return nil, err
	}
	c.swap(next)
	return c.Execute()
}

type preparedState struct {
	sleepable
}

func newPrepared(request interface{}) *preparedState {
	return &preparedState{sleepable{baseState{name: StatePrepared, request: request}}}
}

func (s *preparedState) Send(request interface{}) (RequestState, error) {
	return &sendingState{sleepable{baseState{name: StateSending, request: request}}}, nil
}

func (s *preparedState) Finish(response interface{}) (RequestState, error) {
	return newFinished(s.request, response), nil
}

func (s *preparedState) Fail(err error) (RequestState, error) {
	return newFailed(s.request, err), nil
}

func (s *preparedState) execute(c *ExecutionContext) (interface{}, error) {
	return c.beforeRequest(s.request)
}

type sendingState struct {
	sleepable
}

func (s *sendingState) Finish(response interface{}) (RequestState, error) {
	return newFinished(s.request, response), nil
}

func (s *sendingState) Fail(err error) (RequestState, error) {
	return newFailed(s.request, err), nil
}

func (s *sendingState) execute(c *ExecutionContext) (interface{}, error) {
	c.markAttempt()
	return c.strategy.Send(c.client, s.request, &sendCallback{c: c, request: s.request})
}

type sleepingState struct {
	baseState
	delay time.Duration
	next  RequestState
}

// Fail is valid from Sleeping so a pause that cannot complete fails
// the execution rather than wedging it.
func (s *sleepingState) Fail(err error) (RequestState, error) {
	return newFailed(s.request, err), nil
}

func (s *sleepingState) execute(c *ExecutionContext) (interface{}, error) {
	return c.strategy.Sleep(s.delay, &sleepCallback{c: c, next: s.next})
}

type finishedState struct {
	sleepable
	response interface{}
}

func newFinished(request, response interface{}) *finishedState {
	return &finishedState{
		sleepable: sleepable{baseState{name: StateFinished, request: request}},
		response:  response,
	}
}

func (s *finishedState) execute(c *ExecutionContext) (interface{}, error) {
	c.markEnd()
	response := s.response
	if c.callback != nil {
		v, err := c.client.ApplyCallback(c.callback, response)
		if err != nil {
			return c.strategy.Fail(err)
		}
		response = v
	}
	return c.strategy.Finish(response)
}

type failedState struct {
	sleepable
	err error
}

func newFailed(request interface{}, err error) *failedState {
	return &failedState{
		sleepable: sleepable{baseState{name: StateFailed, request: request}},
		err:       err,
	}
}

func (s *failedState) execute(c *ExecutionContext) (interface{}, error) {
	c.markEnd()
	return c.strategy.Fail(s.err)
}
