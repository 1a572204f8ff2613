package executor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rajatverma/testherd/internal/util"
)

// SequentialPool satisfies the Pool contract without parallelism. Tasks run
// strictly one at a time in submission order, inside the caller's process, so
// they may share global state when the caller explicitly opts into a single
// worker. Concurrent Run calls are legal; they queue and are drained FIFO.
type SequentialPool struct {
	factory HandlerFactory
	logger  *slog.Logger

	// once guards the lazy handler load. The handler is constructed at most
	// once across any number of Run calls, on the first task to drain.
	once    sync.Once
	handler Handler
	loadErr error

	mu       sync.Mutex
	queue    []job
	draining bool
}

// NewSequentialPool creates a sequential pool. The factory is not called until
// the first Run.
func NewSequentialPool(factory HandlerFactory, logger *slog.Logger) *SequentialPool {
	if logger == nil {
		logger = slog.Default()
	}
	return &SequentialPool{
		factory: factory,
		logger:  logger,
	}
}

// Run enqueues the payload and kicks off draining unless a drain is already in
// progress. It blocks until the handler settles this payload.
func (s *SequentialPool) Run(ctx context.Context, payload Payload) (*Result, error) {
	reply := make(chan settled, 1)

	s.mu.Lock()
	s.queue = append(s.queue, job{ctx: ctx, payload: payload, reply: reply})
	start := !s.draining
	if start {
		s.draining = true
	}
	s.mu.Unlock()

	if start {
		go s.drain()
	}

	select {
	case res := <-reply:
		return res.result, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close is a no-op: the sequential pool owns no workers. Any queued tasks
// still drain to completion.
func (s *SequentialPool) Close() {}

// drain pops and settles queued jobs one at a time until the queue is empty.
// Jobs enqueued mid-drain are picked up by the same loop; the draining flag
// ensures no second drainer ever runs concurrently.
func (s *SequentialPool) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		next.reply <- s.runOne(next.ctx, next.payload)
	}
}

func (s *SequentialPool) runOne(ctx context.Context, payload Payload) settled {
	s.once.Do(func() {
		s.logger.Debug("loading sequential handler")
		s.handler, s.loadErr = s.factory(nil)
	})
	if s.loadErr != nil {
		return settled{err: util.WrapTaskError(payload.TaskID, s.loadErr)}
	}

	res, err := invoke(ctx, s.handler, payload)
	if err != nil {
		s.logger.Warn("task failed", "task", payload.TaskID, "error", err)
		return settled{err: util.WrapTaskError(payload.TaskID, err)}
	}

	s.logger.Debug("task completed", "task", payload.TaskID)
	return settled{result: res}
}
