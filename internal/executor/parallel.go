package executor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rajatverma/testherd/internal/util"
)

// ParallelPool executes task payloads concurrently across a fixed-size set of
// isolated workers. Each worker owns its own Handler instance, constructed
// lazily from the factory on the worker's first task. Submissions beyond the
// worker count queue until a worker frees up.
type ParallelPool struct {
	factory HandlerFactory
	env     map[string]string
	logger  *slog.Logger

	jobs chan job
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// job pairs a payload with its reply channel. The reply channel is buffered so
// a worker never blocks on a caller that gave up.
type job struct {
	ctx     context.Context
	payload Payload
	reply   chan settled
}

type settled struct {
	result *Result
	err    error
}

// NewParallelPool creates a pool of `workers` goroutines. The env overlay is
// passed to every worker's handler; the dispatcher uses it to force color
// support matching the invoking terminal, since workers have no terminal of
// their own. workers must be > 1; lower values default to 2.
func NewParallelPool(factory HandlerFactory, workers int, env map[string]string, logger *slog.Logger) *ParallelPool {
	if workers < 2 {
		workers = 2
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &ParallelPool{
		factory: factory,
		env:     env,
		logger:  logger,
		jobs:    make(chan job),
	}

	p.logger.Debug("starting parallel pool", "workers", workers)

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return p
}

// Run submits a payload and blocks until a worker settles it. Ownership of the
// payload's channel endpoint transfers to the receiving worker.
func (p *ParallelPool) Run(ctx context.Context, payload Payload) (*Result, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, util.ErrPoolClosed
	}
	p.mu.Unlock()

	reply := make(chan settled, 1)

	select {
	case p.jobs <- job{ctx: ctx, payload: payload, reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case s := <-reply:
		return s.result, s.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops accepting new tasks and waits for in-flight tasks to finish.
func (p *ParallelPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.jobs)
	p.wg.Wait()
	p.logger.Debug("parallel pool closed")
}

// worker drains the job channel. The handler is constructed on the first job
// so a pool whose factory fails still surfaces the error per task rather than
// at construction time.
func (p *ParallelPool) worker(id int) {
	defer p.wg.Done()

	var handler Handler

	for j := range p.jobs {
		if handler == nil {
			h, err := p.factory(p.env)
			if err != nil {
				p.logger.Warn("worker failed to load handler", "worker_id", id, "error", err)
				j.reply <- settled{err: util.WrapTaskError(j.payload.TaskID, err)}
				continue
			}
			handler = h
		}

		res, err := invoke(j.ctx, handler, j.payload)
		if err != nil {
			p.logger.Warn("task failed", "worker_id", id, "task", j.payload.TaskID, "error", err)
			j.reply <- settled{err: util.WrapTaskError(j.payload.TaskID, err)}
			continue
		}

		p.logger.Debug("task completed", "worker_id", id, "task", j.payload.TaskID)
		j.reply <- settled{result: res}
	}
}
