package executor

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/rajatverma/testherd/internal/config"
	"github.com/rajatverma/testherd/internal/teardown"
	"github.com/rajatverma/testherd/internal/util"
)

// Callbacks receive per-task lifecycle notifications from a run. Across
// distinct tasks they may be invoked in any relative order; for a single task
// exactly one of OnResult and OnFailure fires. Any callback may be nil.
type Callbacks struct {
	// OnStart fires when the task's executor signals that it began running.
	// It may never fire for a task that fails before starting.
	OnStart func(Task)

	// OnResult fires with the filtered result of a successful task
	OnResult func(Task, *Result)

	// OnFailure fires with the task-level error of a failed task
	OnFailure func(Task, error)
}

// Outcome is the settlement record for one dispatched task. Exactly one of
// Result and Err is set.
type Outcome struct {
	Task     Task
	Result   *Result
	Err      error
	Duration time.Duration
}

// Dispatcher runs batches of tasks against one pool instance and reports
// outcomes through caller-supplied callbacks. The pool variant is chosen once
// at construction from the configured worker count.
type Dispatcher struct {
	pool   Pool
	cfg    *config.Config
	logger *slog.Logger

	// Filter post-processes a successful result before OnResult is invoked,
	// typically coverage filtering. nil leaves results untouched.
	Filter func(Task, *Result) *Result
}

// NewDispatcher constructs a dispatcher and its pool. Worker counts above 1
// select the parallel pool; exactly 1 selects the in-band sequential queue.
func NewDispatcher(cfg *config.Config, factory HandlerFactory, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		pool:   NewPool(factory, cfg.Workers, workerEnv(), logger),
		cfg:    cfg,
		logger: logger,
	}
}

// RunAll dispatches every task concurrently, waits for all of them to settle,
// and then runs the configured teardown hook exactly once. It returns the
// per-task outcomes index-aligned with the input batch. Task failures are
// reported through OnFailure and never abort sibling tasks; a teardown failure
// is returned as the aggregate error.
func (d *Dispatcher) RunAll(ctx context.Context, tasks []Task, cb Callbacks) ([]Outcome, error) {
	d.logger.Info("dispatching tasks", "count", len(tasks), "workers", d.cfg.Workers)

	outcomes := make([]Outcome, len(tasks))

	if d.cfg.Workers <= 1 {
		// A single worker settles tasks strictly in submission order.
		// Dispatching in-band keeps callback order aligned with the batch
		// instead of racing the enqueue into the sequential queue.
		for i, task := range tasks {
			outcomes[i] = d.dispatch(ctx, task, cb)
		}
	} else {
		var g errgroup.Group
		for i, task := range tasks {
			i, task := i, task
			g.Go(func() error {
				outcomes[i] = d.dispatch(ctx, task, cb)
				return nil
			})
		}
		g.Wait()
	}

	// The teardown hook runs after every task has settled, not after the
	// task at the batch's last index. Tying it to the last index under
	// concurrent dispatch would let teardown race still-running siblings.
	if err := d.runTeardown(ctx); err != nil {
		return outcomes, err
	}

	d.logger.Info("dispatch completed",
		"total", len(tasks),
		"failed", CountFailed(outcomes))

	return outcomes, nil
}

// Close releases the underlying pool.
func (d *Dispatcher) Close() {
	d.pool.Close()
}

// dispatch runs a single task to settlement: lifecycle channel, payload
// construction, pool submission, result filtering, and terminal callback.
func (d *Dispatcher) dispatch(ctx context.Context, task Task, cb Callbacks) Outcome {
	// One lifecycle channel per task, scoped to this dispatch. The listener
	// delivers at most one OnStart; a channel that is never signaled leaks
	// nothing. A fast task can settle before the listener is scheduled, so
	// the settled branch drains the channel once more: a signal the executor
	// delivered still counts as started.
	started := make(chan struct{}, 1)
	settledCh := make(chan struct{})
	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		select {
		case <-started:
		case <-settledCh:
			select {
			case <-started:
			default:
				return
			}
		}
		if cb.OnStart != nil {
			cb.OnStart(task)
		}
	}()

	payload := Payload{
		TaskID:          task.ID,
		UpdateSnapshots: d.cfg.UpdateSnapshots,
		TestNamePattern: d.cfg.TestNamePattern,
		CollectCoverage: d.cfg.Coverage.Enabled,
		Started:         started,
	}

	begin := time.Now()
	res, err := d.pool.Run(ctx, payload)
	close(settledCh)
	// OnStart, when owed, fires before the terminal callback.
	<-listenerDone
	out := Outcome{Task: task, Duration: time.Since(begin)}

	if err != nil {
		out.Err = err
		if cb.OnFailure != nil {
			cb.OnFailure(task, err)
		}
		return out
	}

	if d.Filter != nil {
		res = d.Filter(task, res)
	}
	out.Result = res
	if cb.OnResult != nil {
		cb.OnResult(task, res)
	}
	return out
}

// runTeardown resolves the configured hook by name and invokes it once. A
// registered hook with a nil action is a legal no-op.
func (d *Dispatcher) runTeardown(ctx context.Context) error {
	if d.cfg.Teardown == "" {
		return nil
	}

	action, err := teardown.Resolve(d.cfg.Teardown)
	if err != nil {
		return util.WrapTeardownError(d.cfg.Teardown, err)
	}
	if action == nil {
		d.logger.Debug("teardown hook has no action", "hook", d.cfg.Teardown)
		return nil
	}

	d.logger.Debug("running teardown hook", "hook", d.cfg.Teardown)
	if err := action(ctx); err != nil {
		return util.WrapTeardownError(d.cfg.Teardown, err)
	}
	return nil
}

// workerEnv builds the environment overlay for parallel workers. Workers have
// no terminal of their own, so color support is forced to match the invoking
// terminal's capability.
func workerEnv() map[string]string {
	level := "0"
	if os.Getenv("NO_COLOR") == "" && isatty.IsTerminal(os.Stdout.Fd()) {
		level = "1"
	}
	return map[string]string{"FORCE_COLOR": level}
}
