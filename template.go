// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqflow

import "time"

type transitionKind int

const (
	transitionNone transitionKind = iota
	transitionSend
	transitionRetry
	transitionFinish
	transitionFail
)

var transitionNames = []string{
	"none",
	"send",
	"sleep",
	"finish",
	"fail",
}

// A Transition redirects the request lifecycle from a RequestTemplate
// hook. The zero value leaves the default behavior for the hook in
// place; use Retry, Finish, or Fail to override it.
//
// A Transition is interpreted by the state machine against its current
// state. Requesting a transition that is not reachable from the
// current state fails the execution with *IllegalTransitionError.
type Transition struct {
	kind     transitionKind
	delay    time.Duration
	response interface{}
	err      error
}

// Retry returns a transition that pauses the execution for delay and
// then re-prepares the request for another send.
func Retry(delay time.Duration) Transition {
	return Transition{kind: transitionRetry, delay: delay}
}

// Finish returns a transition that completes the execution with the
// given response, synthesized or otherwise.
func Finish(response interface{}) Transition {
	return Transition{kind: transitionFinish, response: response}
}

// Fail returns a transition that fails the execution with the given
// error.
func Fail(err error) Transition {
	return Transition{kind: transitionFail, err: err}
}

// send is the internal default transition out of the Prepared state.
func send(request interface{}) Transition {
	return Transition{kind: transitionSend, response: request}
}

// A RequestTemplate hooks into the lifecycle of a request. Each hook
// returns either the zero Transition, falling back to the default
// behavior, or an explicit override (Retry, Finish, Fail).
//
// Embed BaseTemplate to implement only the hooks of interest.
// Templates are supplied by the caller and never owned by the machine;
// a template that tracks per-execution state (such as an attempt
// counter) must not be shared across executions.
type RequestTemplate interface {
	// BeforeRequest handles the request before it is sent. The default
	// transition sends it.
	BeforeRequest(request interface{}) Transition

	// AfterResponse handles the response after a successful request.
	// The default transition finishes the execution with the response.
	AfterResponse(request, response interface{}) Transition

	// AfterError handles a translated transport failure. The default
	// transition fails the execution with the error. Returning Retry
	// here is the local-recovery point for retry and backoff policy.
	AfterError(request interface{}, err error) Transition
}

// BaseTemplate is a RequestTemplate whose hooks all fall back to the
// default behavior. Embed it to override hooks selectively.
type BaseTemplate struct{}

// BeforeRequest returns the zero Transition.
func (BaseTemplate) BeforeRequest(interface{}) Transition { return Transition{} }

// AfterResponse returns the zero Transition.
func (BaseTemplate) AfterResponse(interface{}, interface{}) Transition { return Transition{} }

// AfterError returns the zero Transition.
func (BaseTemplate) AfterError(interface{}, error) Transition { return Transition{} }

// ComposeTemplates chains templates into one. For each hook, the
// chained template asks each sub-template in order and returns the
// first non-zero transition; sub-templates after it are not consulted
// for that hook occurrence.
func ComposeTemplates(templates ...RequestTemplate) RequestTemplate {
	for _, t := range templates {
		if t == nil {
			panic("reqflow: nil template")
		}
	}
	chain := make([]RequestTemplate, len(templates))
	copy(chain, templates)
	return templateChain(chain)
}

type templateChain []RequestTemplate

func (c templateChain) BeforeRequest(request interface{}) Transition {
	for _, t := range c {
		if tr := t.BeforeRequest(request); tr.kind != transitionNone {
			return tr
		}
	}
	return Transition{}
}

func (c templateChain) AfterResponse(request, response interface{}) Transition {
	for _, t := range c {
		if tr := t.AfterResponse(request, response); tr.kind != transitionNone {
			return tr
		}
	}
	return Transition{}
}

func (c templateChain) AfterError(request interface{}, err error) Transition {
	for _, t := range c {
		if tr := t.AfterError(request, err); tr.kind != transitionNone {
			return tr
		}
	}
	return Transition{}
}
