// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"sync"
	"time"
)

// A Loop is a single-threaded cooperative scheduler. Tasks submitted
// to the loop run one at a time, in submission order, on whichever
// goroutine is running the loop. Tasks may be submitted from any
// goroutine.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}
}

// NewLoop returns an idle loop. Nothing runs until a goroutine calls
// Run or RunUntil.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Submit queues fn to run on the loop.
func (l *Loop) Submit(fn func()) {
	if fn == nil {
		panic("reqflow/coop: nil task")
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// After queues fn to run on the loop once d has elapsed. The delay is
// timed off the loop, so a long-running task does not stretch it, but
// fn itself still waits its turn behind whatever task is running when
// the timer fires.
func (l *Loop) After(d time.Duration, fn func()) {
	if fn == nil {
		panic("reqflow/coop: nil task")
	}
	time.AfterFunc(d, func() {
		l.Submit(fn)
	})
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil
	}
	fn := l.tasks[0]
	l.tasks = l.tasks[1:]
	return fn
}

func (l *Loop) drain() {
	for fn := l.next(); fn != nil; fn = l.next() {
		fn()
	}
}

// RunUntil runs the loop on the calling goroutine until p resolves,
// then returns p's result. Queued tasks left over when p resolves stay
// queued for a later Run or RunUntil.
func (l *Loop) RunUntil(p *Promise) (interface{}, error) {
	for {
		l.drain()
		select {
		case <-p.Done():
			return p.Result()
		case <-l.wake:
		}
	}
}

// Run runs the loop on the calling goroutine until stop is closed.
func (l *Loop) Run(stop <-chan struct{}) {
	for {
		l.drain()
		select {
		case <-stop:
			return
		case <-l.wake:
		}
	}
}
