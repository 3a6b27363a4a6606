// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package offload runs request executions on a bounded worker pool.
//
// The caller submits an execution and receives a *Future immediately;
// sends and callbacks proceed on pool workers, while retry pauses park
// on timers so they never occupy a worker slot. Waiting on the future
// yields exactly the value and error a blocking execution of the same
// request would have produced:
//
//	pool := offload.NewPool(offload.DefaultWorkers)
//	strategy, err := offload.NewStrategy(pool)
//	if err != nil {
//		// ...
//	}
//	v, err := reqflow.Execute(client, strategy, template, plan)
//	if err != nil {
//		// ...
//	}
//	response, err := v.(*offload.Future).Wait()
package offload
