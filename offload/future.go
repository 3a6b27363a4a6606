// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package offload

import "sync"

// A Future is the pending result of work submitted to a Pool. It
// completes exactly once.
type Future struct {
	done  chan struct{}
	once  sync.Once
	value interface{}
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved returns a future already completed with value.
func Resolved(value interface{}) *Future {
	f := newFuture()
	f.complete(value, nil)
	return f
}

// Failed returns a future already completed with err.
func Failed(err error) *Future {
	f := newFuture()
	f.complete(nil, err)
	return f
}

func (f *Future) complete(value interface{}, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed when the future completes.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future completes and returns its result. When
// the result is itself a *Future, Wait waits on that too, so a caller
// always receives a settled value no matter how many scheduling hops
// produced it.
func (f *Future) Wait() (interface{}, error) {
	<-f.done
	if inner, ok := f.value.(*Future); ok && f.err == nil {
		return inner.Wait()
	}
	return f.value, f.err
}

// OnComplete registers fn to run when the future completes. The inner
// future, if the result is one, is waited out first. If the future is
// already complete, fn runs on the calling goroutine; otherwise it
// runs on a new goroutine.
func (f *Future) OnComplete(fn func(value interface{}, err error)) {
	select {
	case <-f.done:
		fn(f.Wait())
	default:
		go func() {
			fn(f.Wait())
		}()
	}
}
