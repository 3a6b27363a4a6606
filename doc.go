// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package reqflow is a transport-agnostic, concurrency-agnostic execution
framework for HTTP requests. It drives a single request from creation
to completion through a small state machine, while letting callers plug
in cross-cutting policies (retry, rate limiting) without touching the
machine, and choose among scheduling models (blocking, worker-pool
offload, single-threaded cooperative) without duplicating the lifecycle
logic per model.

The machine never interprets HTTP: requests and responses are opaque
values shuttled between a Client adapter, which owns the transport, and
the caller.

Execute a request by binding a client adapter, an execution strategy,
and an optional template:

	plan, err := request.NewPlan("GET", "https://www.example.com", nil)
	...
	client := nethttp.New()
	defer client.Close()
	resp, err := reqflow.Execute(client, reqflow.Blocking, nil, plan)

Install retry and backoff policy through a RequestTemplate:

	tmpl := retry.NewTemplate(
		retry.Times(3).And(retry.ErrClass(clienterr.Connection)),
		retry.NewExpWaiter(50*time.Millisecond, time.Second, time.Now()),
	)
	resp, err := reqflow.Execute(client, reqflow.Blocking, tmpl, plan)

For a non-blocking call, pair the offload client and strategy and
receive a Future:

	pool := offload.NewPool(8)
	client, err := offload.NewClient(nil, pool)
	...
	strategy, err := offload.NewStrategy(pool)
	...
	v, err := reqflow.Execute(client, strategy, tmpl, plan)
	resp, err := v.(*offload.Future).Wait()

Subpackage coop provides the cooperative equivalent: a single-threaded
Loop, a Promise-yielding strategy, and a thread-aware proxy for feeding
pending values to synchronous callers without blocking the loop.

Template hooks return transitions, not control flow: BeforeRequest,
AfterResponse, and AfterError each return either the zero Transition
(keep the default lifecycle) or an explicit Retry, Finish, or Fail. A
hook requesting a transition that is unreachable from the current state
fails the execution with *IllegalTransitionError; the machine never
silently ignores a bad transition.
*/
package reqflow
