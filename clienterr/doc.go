// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package clienterr defines the shared, transport-independent taxonomy
// of client failure classes, and the translation tables client
// adapters use to map their transport's native errors into it.
//
// Calling code never sees a raw transport error: adapters translate at
// their boundary, and callers branch on failure kind with errors.Is
// against a Class sentinel:
//
//	_, err := client.Send(plan)
//	if errors.Is(err, clienterr.ConnectionTimeout) {
//		// connect deadline exceeded
//	} else if errors.Is(err, clienterr.Connection) {
//		// any connection-level failure, timeouts included
//	}
//
// Matching a class matches its whole family, so clienterr.Base catches
// every translated failure.
package clienterr
