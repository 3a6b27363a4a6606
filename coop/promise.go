// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coop

import "sync"

// A Promise is the pending result of loop-scheduled work. It resolves
// exactly once, and its subscribers always run as loop tasks, so code
// chained onto a promise shares the loop's single-threaded view of the
// world.
type Promise struct {
	loop  *Loop
	mu    sync.Mutex
	done  chan struct{}
	value interface{}
	err   error
	subs  []func(interface{}, error)
}

// NewPromise returns an unresolved promise affine to the given loop.
func NewPromise(loop *Loop) *Promise {
	if loop == nil {
		panic("reqflow/coop: nil loop")
	}
	return &Promise{loop: loop, done: make(chan struct{})}
}

// Complete resolves the promise with value and err. When value is
// itself a *Promise, p resolves when that promise does, with its
// result, so chains of scheduling hops collapse to a single settled
// value. Completing an already-resolved promise is a no-op.
func (p *Promise) Complete(value interface{}, err error) {
	if inner, ok := value.(*Promise); ok && err == nil {
		inner.subscribe(p.settle)
		return
	}
	p.settle(value, err)
}

func (p *Promise) settle(value interface{}, err error) {
	p.mu.Lock()
	select {
	case <-p.done:
		p.mu.Unlock()
		return
	default:
	}
	p.value = value
	p.err = err
	close(p.done)
	subs := p.subs
	p.subs = nil
	p.mu.Unlock()
	for _, fn := range subs {
		fn := fn
		p.loop.Submit(func() { fn(value, err) })
	}
}

func (p *Promise) subscribe(fn func(interface{}, error)) {
	p.mu.Lock()
	select {
	case <-p.done:
		p.mu.Unlock()
		p.loop.Submit(func() { fn(p.value, p.err) })
		return
	default:
	}
	p.subs = append(p.subs, fn)
	p.mu.Unlock()
}

// Then returns a promise for the result of applying onSuccess or
// onFailure, whichever matches how p resolves. A nil handler passes
// the value or error through unchanged. The handler runs as a loop
// task; if it returns a *Promise, the returned promise resolves when
// that one does.
func (p *Promise) Then(onSuccess func(interface{}) (interface{}, error), onFailure func(error) (interface{}, error)) *Promise {
	next := NewPromise(p.loop)
	p.subscribe(func(value interface{}, err error) {
		switch {
		case err != nil && onFailure != nil:
			next.Complete(onFailure(err))
		case err != nil:
			next.Complete(nil, err)
		case onSuccess != nil:
			next.Complete(onSuccess(value))
		default:
			next.Complete(value, nil)
		}
	})
	return next
}

// Done returns a channel that is closed when the promise resolves.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Result blocks until the promise resolves and returns its result.
// Never call Result from a loop task: the loop cannot make progress
// while its goroutine is blocked, so the promise may never resolve.
func (p *Promise) Result() (interface{}, error) {
	<-p.done
	return p.value, p.err
}
