package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rajatverma/testherd/internal/config"
)

// Task represents one unit of test work to dispatch
// It is owned by the caller and must not change for the duration of a run
type Task struct {
	// ID identifies the task, typically the project name or test file path
	ID string

	// Project is the owning project's configuration
	// Its root directory anchors coverage filtering for this task
	Project *config.Project
}

// Payload is the serializable bundle handed to a pool for one task
type Payload struct {
	// TaskID identifies which task this payload belongs to
	TaskID string

	// UpdateSnapshots is the snapshot-update mode for this run
	UpdateSnapshots string

	// TestNamePattern restricts which test names run (empty means all)
	TestNamePattern string

	// CollectCoverage indicates whether low-level coverage should be collected
	CollectCoverage bool

	// Started is the executor's endpoint of the task's lifecycle channel
	// The pool signals it exactly once when the task begins running
	// Ownership transfers to the pool for the task's duration
	Started chan<- struct{}
}

// markStarted signals the lifecycle channel. The channel is buffered and the
// dispatcher is its only receiver, so the send never blocks.
func (p Payload) markStarted() {
	if p.Started == nil {
		return
	}
	select {
	case p.Started <- struct{}{}:
	default:
	}
}

// CoverageEntry is one per-file coverage record produced during task execution
type CoverageEntry struct {
	// URL is the source-location identifier. Handlers produce it in URL form
	// (e.g. file:///root/a.js); after filtering it holds the plain file path.
	URL string `json:"url"`

	// Data is the opaque coverage payload for that source
	Data json.RawMessage `json:"data,omitempty"`
}

// WrappedCoverage wraps a filtered coverage entry for upstream reporters
type WrappedCoverage struct {
	Result CoverageEntry `json:"result"`
}

// Result is the outcome of executing a single task payload
type Result struct {
	// TaskID identifies which task this result is from
	TaskID string `json:"taskId"`

	// Passed indicates whether the task's tests succeeded
	Passed bool `json:"passed"`

	// Output is the captured output of the task (may be empty)
	Output string `json:"output,omitempty"`

	// RawCoverage holds unfiltered coverage entries as produced by the handler
	// It is nil when coverage collection was not requested
	RawCoverage []CoverageEntry `json:"rawCoverage,omitempty"`

	// Coverage holds the filtered, wrapped entries after post-processing
	Coverage []WrappedCoverage `json:"coverage,omitempty"`
}

// Handler executes one task payload. Implementations are opaque to the pool:
// they receive a payload and return a result or an error.
type Handler interface {
	Execute(ctx context.Context, p Payload) (*Result, error)
}

// HandlerFactory constructs a Handler instance. Parallel pools call it once per
// worker with the worker environment overlay; the sequential pool calls it at
// most once with a nil overlay since tasks run in the caller's own environment.
type HandlerFactory func(env map[string]string) (Handler, error)

// Pool executes task payloads and is safe for concurrent Run calls regardless
// of variant. The sequential variant serializes internally.
type Pool interface {
	// Run submits a payload and blocks until the executor produces a result
	// or fails. Channel endpoints in the payload transfer to the pool.
	Run(ctx context.Context, p Payload) (*Result, error)

	// Close releases the pool's workers. In-flight tasks finish first.
	Close()
}

// NewPool selects the pool variant for a run. Worker counts above 1 get true
// parallel execution; exactly 1 selects the in-band sequential queue so tasks
// share the caller's process state. The choice is made once here and nothing
// downstream branches on the variant again.
func NewPool(factory HandlerFactory, workers int, env map[string]string, logger *slog.Logger) Pool {
	if workers > 1 {
		return NewParallelPool(factory, workers, env, logger)
	}
	return NewSequentialPool(factory, logger)
}

// invoke runs one payload against a handler, converting a panic into a
// task-level error so the pool survives a crashing worker.
func invoke(ctx context.Context, h Handler, p Payload) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	p.markStarted()
	return h.Execute(ctx, p)
}
