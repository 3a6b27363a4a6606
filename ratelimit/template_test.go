// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ratelimit

import (
	"testing"
	"time"

	"github.com/gogama/reqflow"
	"github.com/stretchr/testify/assert"
)

type limiterFunc func() time.Duration

func (f limiterFunc) Delay() time.Duration {
	return f()
}

func TestNewTemplate(t *testing.T) {
	assert.PanicsWithValue(t, "reqflow/ratelimit: nil limiter", func() {
		NewTemplate(nil)
	})
}

func TestTemplate_BeforeRequest(t *testing.T) {
	t.Run("admitted", func(t *testing.T) {
		tmpl := NewTemplate(limiterFunc(func() time.Duration {
			return 0
		}))
		assert.Equal(t, reqflow.Transition{}, tmpl.BeforeRequest("req"))
	})
	t.Run("delayed", func(t *testing.T) {
		tmpl := NewTemplate(limiterFunc(func() time.Duration {
			return 40 * time.Millisecond
		}))
		assert.Equal(t, reqflow.Retry(40*time.Millisecond), tmpl.BeforeRequest("req"))
	})
	t.Run("shared across executions", func(t *testing.T) {
		w := NewWindow(2, time.Hour)
		tmpl := NewTemplate(w)
		assert.Equal(t, reqflow.Transition{}, tmpl.BeforeRequest("first"))
		assert.Equal(t, reqflow.Transition{}, tmpl.BeforeRequest("second"))
		assert.NotEqual(t, reqflow.Transition{}, tmpl.BeforeRequest("third"))
	})
}
