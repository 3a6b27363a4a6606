// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqflow

import "time"

// Blocking is the default execution strategy: a single call stack in
// which every operation blocks the calling goroutine until complete.
// Pair it with a blocking client adapter such as nethttp.
//
// Blocking offers no cancellation; a caller wanting a timeout sets it
// through the transport's own timeout parameters.
var Blocking ExecutionStrategy = blockingStrategy{}

type blockingStrategy struct{}

func (blockingStrategy) Send(client Client, request interface{}, cb SendCallback) (interface{}, error) {
	response, err := client.Send(request)
	if err != nil {
		return cb.OnFailure(err)
	}
	return cb.OnSuccess(response)
}

func (blockingStrategy) Sleep(d time.Duration, cb SleepCallback) (interface{}, error) {
	time.Sleep(d)
	return cb.OnSuccess()
}

func (blockingStrategy) Finish(response interface{}) (interface{}, error) {
	return response, nil
}

func (blockingStrategy) Fail(err error) (interface{}, error) {
	return nil, err
}

func (blockingStrategy) Execute(ex Executable) (interface{}, error) {
	return ex.Execute()
}
