// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ratelimit

import "github.com/gogama/reqflow"

// A Template is a request template that throttles attempts through a
// Limiter. When the limiter reports a delay, the template redirects
// the execution into a pause of that duration before preparing the
// attempt again; a paused execution suspends in whatever idiom its
// strategy uses, so a throttled cooperative execution does not block
// the loop.
//
// Unlike a retry template, a Template holds no per-execution state:
// one Template, and one Limiter, may throttle any number of concurrent
// executions against a shared budget.
type Template struct {
	reqflow.BaseTemplate
	limiter Limiter
}

// NewTemplate constructs a throttling template from a limiter.
func NewTemplate(limiter Limiter) *Template {
	if limiter == nil {
		panic("reqflow/ratelimit: nil limiter")
	}
	return &Template{limiter: limiter}
}

// BeforeRequest pauses the execution for the limiter's chosen delay,
// or lets the attempt proceed when the limiter admits it.
func (t *Template) BeforeRequest(request interface{}) reqflow.Transition {
	if d := t.limiter.Delay(); d > 0 {
		return reqflow.Retry(d)
	}
	return reqflow.Transition{}
}
