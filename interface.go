// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqflow

import (
	"errors"
	"time"

	"github.com/gogama/reqflow/clienterr"
)

// ErrUnsupported indicates a strategy or client adapter was constructed
// without a runtime collaborator it cannot work without (for example a
// cooperative client without a loop, or an offload strategy without a
// worker pool). Constructors report this once, at construction time; a
// misconfigured component is never handed out to fail on first use.
var ErrUnsupported = errors.New("reqflow: unsupported configuration")

// A Callback transforms a response value. Callbacks are supplied by
// the caller; the framework moves them between scheduling contexts but
// never inspects what they compute.
type Callback func(response interface{}) (interface{}, error)

// A Client adapts one HTTP transport to the execution framework. The
// request and response values a Client exchanges are opaque to the
// framework: only the adapter and the caller interpret them.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type Client interface {
	// Send performs exactly one request/response exchange. A blocking
	// transport blocks the calling goroutine; a deferred transport
	// returns a pending value its paired ExecutionStrategy knows how
	// to resolve.
	//
	// On transport failure the returned error is translated through
	// the adapter's taxonomy table; the native transport error never
	// escapes untranslated.
	Send(request interface{}) (interface{}, error)

	// ApplyCallback applies a caller-supplied transform to a response.
	// It exists as a hook point so wrapping adapters can relocate
	// where the transform executes without changing what it computes.
	ApplyCallback(cb Callback, response interface{}) (interface{}, error)

	// Close releases the transport session if and only if this adapter
	// created it. A caller-supplied session is never closed by the
	// adapter.
	Close() error

	// Errors returns the adapter's taxonomy translation table. It is
	// the only sanctioned way calling code inspects failure kind.
	Errors() *clienterr.Table
}

// A SendCallback continues a running request execution after the
// request is sent. Exactly one of OnSuccess and OnFailure is invoked
// per send.
//
// The return values are the continuation's eventual result; a strategy
// threads them back to whatever is driving the execution.
type SendCallback interface {
	// OnSuccess handles a successful request.
	OnSuccess(response interface{}) (interface{}, error)
	// OnFailure handles a failed request. The error carries the
	// translated failure; its class is recoverable with
	// clienterr.ClassOf.
	OnFailure(err error) (interface{}, error)
}

// A SleepCallback continues a running request execution after an
// intended pause.
type SleepCallback interface {
	// OnSuccess handles a completed pause.
	OnSuccess() (interface{}, error)
	// OnFailure handles a pause that could not complete.
	OnFailure(err error) (interface{}, error)
}

// An Executable is a resumable request execution. Each call to Execute
// starts or continues the execution; how much progress a single call
// makes depends on the ExecutionStrategy driving it.
type Executable interface {
	Execute() (interface{}, error)
}

// An ExecutionStrategy adapts the request lifecycle to one concurrency
// model. The state machine depends only on this interface, never on a
// concrete model, so the same lifecycle runs blocking, offloaded to a
// worker pool, or cooperatively scheduled without being written three
// times.
//
// A strategy is paired with a compatible Client; the two are never
// mixed across models within one execution.
type ExecutionStrategy interface {
	// Send sends the request using the provided client and continues
	// through cb: exactly one OnSuccess on a successful exchange,
	// exactly one OnFailure with the translated error otherwise.
	// Failures never propagate past this boundary except through cb.
	Send(client Client, request interface{}, cb SendCallback) (interface{}, error)

	// Sleep pauses the execution for the given duration using the
	// strategy's native suspension mechanism, then continues through
	// cb.
	Sleep(d time.Duration, cb SleepCallback) (interface{}, error)

	// Finish completes the execution with the given response, wrapping
	// or unwrapping it as the strategy's scheduling model requires.
	// The blocking strategy returns it unchanged.
	Finish(response interface{}) (interface{}, error)

	// Fail propagates a terminal failure in the idiom native to the
	// strategy's scheduling model.
	Fail(err error) (interface{}, error)

	// Execute drives an executable to completion under this strategy's
	// scheduling model: a direct call when blocking, a dispatch
	// yielding a Future when offloaded, a scheduled task yielding a
	// Promise when cooperative.
	Execute(ex Executable) (interface{}, error)
}
