// Package executor dispatches batches of independent test tasks to a pool of
// concurrent executors and routes each task's result or failure back to the
// caller.
//
// Two pool variants implement one contract. The parallel pool runs payloads
// across a fixed-size set of isolated workers, each with its own lazily
// constructed handler; completion order is unspecified. The sequential pool
// emulates the same contract with a FIFO queue that drains strictly one task
// at a time inside the caller's process, so single-worker runs can share
// global state. The variant is selected once, when the dispatcher is built,
// and nothing else branches on it.
//
// # Basic Usage
//
//	d := executor.NewDispatcher(cfg, factory, logger)
//	defer d.Close()
//
//	outcomes, err := d.RunAll(ctx, tasks, executor.Callbacks{
//	    OnStart:   func(t executor.Task) { fmt.Println("started", t.ID) },
//	    OnResult:  func(t executor.Task, r *executor.Result) { /* report */ },
//	    OnFailure: func(t executor.Task, err error) { /* report */ },
//	})
//
// # Guarantees
//
//   - Every task receives exactly one terminal callback, OnResult or
//     OnFailure, never both.
//   - A failing task never aborts sibling tasks in the same batch.
//   - RunAll returns only after every task has settled; the teardown hook,
//     when configured, runs exactly once after that point.
//   - Each task's lifecycle channel is created and torn down within that
//     task's dispatch; a never-signaled channel is a legal terminal state.
//
// Cancellation of in-flight tasks is not provided at this layer: the context
// is checked at submission and settlement, but a running handler is not
// preempted.
package executor
