// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package ratelimit throttles request attempts through a request
// template.
//
// Two limiters are provided: a token bucket over golang.org/x/time's
// rate.Limiter, and a sliding window admitting at most n attempts per
// period. Compose the template ahead of a retry template so that
// retried attempts are throttled too:
//
//	limiter := ratelimit.NewWindow(10, time.Second)
//	template := reqflow.ComposeTemplates(
//		ratelimit.NewTemplate(limiter),
//		retry.NewTemplate(nil, nil),
//	)
package ratelimit
