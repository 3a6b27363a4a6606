// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides a request template implementing retry with
// backoff.
//
// A retry policy has two independent halves: a Decider saying whether
// a failed attempt may be retried, and a Waiter saying how long to
// pause first. The built-in deciders compose with And and Or:
//
//	decider := retry.Times(3).And(retry.ErrClass(clienterr.Connection))
//	template := retry.NewTemplate(decider, retry.DefaultWaiter)
//
// Status-code driven retry, for transports whose response carries a
// status, is a custom RequestTemplate returning reqflow.Retry from
// AfterResponse; this package concerns itself only with transport
// failures.
package retry
