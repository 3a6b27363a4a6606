// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package offload

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultWorkers is the worker count used when no explicit pool size
// is supplied.
const DefaultWorkers = 8

// A Pool runs submitted work on a bounded number of concurrent
// workers.
//
// Pool is safe for concurrent use by multiple goroutines.
type Pool struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewPool returns a pool allowing up to workers concurrent tasks.
func NewPool(workers int) *Pool {
	if workers < 1 {
		panic("reqflow/offload: pool needs at least one worker")
	}
	return &Pool{sem: semaphore.NewWeighted(int64(workers))}
}

// Submit schedules fn to run on a pool worker and returns a future for
// its result. Submit never blocks: if every worker is busy the task
// waits its turn.
func (p *Pool) Submit(fn func() (interface{}, error)) *Future {
	f := newFuture()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)
		f.complete(fn())
	}()
	return f
}

// Wait blocks until every task submitted so far has completed. It does
// not prevent new submissions, so it is meaningful only once the
// caller has stopped submitting.
func (p *Pool) Wait() {
	p.wg.Wait()
}
