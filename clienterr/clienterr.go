// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package clienterr

import (
	"errors"
	"fmt"
)

// A Class identifies a transport-independent category of client
// failure.
//
// Classes form a hierarchy rooted at Base. Class implements the error
// interface so that a Class can be used as a match target for
// errors.Is: matching a class also matches every class beneath it, so
// errors.Is(err, clienterr.Base) is true for any translated failure,
// while errors.Is(err, clienterr.ConnectionTimeout) is true only for
// connection timeouts.
type Class int

const (
	// Base is the root class. Every translated transport failure
	// belongs to it.
	Base Class = iota
	// Connection indicates a failure to establish or maintain the
	// connection to the server (refused, reset, aborted, and so on).
	Connection
	// ConnectionTimeout indicates the connection to the server could
	// not be established within the transport's connect deadline. It
	// is a subtype of Connection.
	ConnectionTimeout
	// ServerTimeout indicates the server did not respond within the
	// transport's read deadline.
	ServerTimeout
	// SSL indicates a TLS handshake or certificate verification
	// failure. It is a subtype of Connection.
	SSL
	// InvalidURL indicates the request target could not be used to
	// address a server.
	InvalidURL

	numClasses
)

var classNames = []string{
	"base client error",
	"connection error",
	"connection timeout",
	"server timeout",
	"ssl error",
	"invalid URL",
}

// parent maps each class to its immediate supertype. Base is its own
// root and is marked with -1.
var parent = []Class{
	Base:              -1,
	Connection:        Base,
	ConnectionTimeout: Connection,
	ServerTimeout:     Base,
	SSL:               Connection,
	InvalidURL:        Base,
}

// Name returns the name of the class.
func (c Class) Name() string {
	if c < 0 || c >= numClasses {
		return fmt.Sprintf("clienterr.Class(%d)", int(c))
	}
	return classNames[c]
}

// String returns the name of the class.
func (c Class) String() string {
	return c.Name()
}

// Error returns the name of the class, allowing a bare Class to act as
// an error sentinel.
func (c Class) Error() string {
	return c.Name()
}

// Is reports whether c is target or one of target's subtypes.
func (c Class) Is(target Class) bool {
	if c < 0 || c >= numClasses {
		return false
	}
	for x := c; x >= 0; x = parent[x] {
		if x == target {
			return true
		}
	}
	return false
}

// An Error is a transport failure translated into the shared taxonomy.
// It wraps the native transport error, which remains reachable through
// errors.Unwrap, errors.Is and errors.As, but the native error's
// concrete type is an implementation detail of the adapter that
// produced it and should not be relied upon.
type Error struct {
	// Class is the most specific matching taxonomy class.
	Class Class
	// Cause is the native transport error.
	Cause error
}

// Error returns a message of the form "<class>: <cause>".
func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Class.Name()
	}
	return e.Class.Name() + ": " + e.Cause.Error()
}

// Unwrap returns the native transport error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is matching against a Class sentinel, respecting
// the class hierarchy.
func (e *Error) Is(target error) bool {
	if cls, ok := target.(Class); ok {
		return e.Class.Is(cls)
	}
	return false
}

// ClassOf returns the taxonomy class of err. The second return value
// is false if err is nil or contains no translated client error.
func ClassOf(err error) (Class, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Class, true
	}
	var cls Class
	if errors.As(err, &cls) {
		return cls, true
	}
	return 0, false
}
