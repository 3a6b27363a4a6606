// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package coop runs request executions on a single-threaded
// cooperative event loop.
//
// Executions scheduled on a Loop interleave at their lifecycle stage
// boundaries: while one execution waits out a retry pause or an
// in-flight exchange, others make progress. I/O itself runs on a
// worker pool behind the loop, so a slow server never stalls the
// scheduler.
//
//	loop := coop.NewLoop()
//	strategy, err := coop.NewStrategy(loop)
//	if err != nil {
//		// ...
//	}
//	client, err := coop.NewClient(nil, loop, nil)
//	if err != nil {
//		// ...
//	}
//	v, err := reqflow.Execute(client, strategy, template, plan)
//	if err != nil {
//		// ...
//	}
//	response, err := loop.RunUntil(v.(*coop.Promise))
//
// Callbacks attached to an execution run as loop tasks. A callback
// that needs to block wraps itself with Client.ThreadedCallback, which
// moves it to a pool worker and hands it a *ThreadedResponse for
// reaching back onto the loop.
package coop
