// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package request provides a re-sendable HTTP request plan.
//
// The standard *http.Request is consumed when sent: its Body reader is
// drained and cannot be replayed on a retry. A Plan captures the full
// request, body included, in a form that can be converted to a fresh
// *http.Request as many times as an execution needs to attempt it.
package request
