// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqflow

import "sync"

// An AdapterFactory recognizes a concrete transport session value and
// produces a Client adapter wrapping it. A factory returns nil for a
// session it does not recognize.
type AdapterFactory func(session interface{}) Client

var (
	registryLock  sync.RWMutex
	factories     []AdapterFactory
	defaultClient func() Client
)

// RegisterAdapter registers a factory for resolving transport session
// values to client adapters. Transport packages typically register
// themselves from an init function, in the manner of database/sql
// drivers.
func RegisterAdapter(f AdapterFactory) {
	if f == nil {
		panic("reqflow: nil adapter factory")
	}
	registryLock.Lock()
	defer registryLock.Unlock()
	factories = append(factories, f)
}

// AdapterFor resolves a transport session value to a Client adapter
// wrapping it, consulting registered factories most-recently-registered
// first so an application can shadow a built-in factory. It returns
// nil if no factory recognizes the session.
func AdapterFor(session interface{}) Client {
	registryLock.RLock()
	defer registryLock.RUnlock()
	for i := len(factories) - 1; i >= 0; i-- {
		if c := factories[i](session); c != nil {
			return c
		}
	}
	return nil
}

// SetDefaultClient sets the process-wide default client constructor.
// The registry is read at construction time and is otherwise inert; a
// client already constructed is unaffected by a later change.
func SetDefaultClient(f func() Client) {
	registryLock.Lock()
	defer registryLock.Unlock()
	defaultClient = f
}

// DefaultClient constructs a client using the process-wide default
// constructor, or returns nil if none is set. Importing the nethttp
// package sets the default to a lazily created net/http adapter.
func DefaultClient() Client {
	registryLock.RLock()
	f := defaultClient
	registryLock.RUnlock()
	if f == nil {
		return nil
	}
	return f()
}
