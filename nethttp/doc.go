// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package nethttp adapts the standard net/http transport to the
// reqflow execution framework.
//
// Importing the package registers an adapter factory that recognizes
// *http.Client session values, and installs a lazily-created owned
// client as the process-wide default:
//
//	client := reqflow.AdapterFor(&http.Client{Timeout: 5 * time.Second})
//
// A client constructed with New owns its transport session and
// releases it on Close; a client constructed with Wrap borrows the
// caller's session and never closes it.
package nethttp
