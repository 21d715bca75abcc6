package biometric

import (
	"context"
	"sync"

	"biointake.io/infrastructure/biometric/types"
)

type poolJob struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// WorkerPool runs CPU-bound analysis on a fixed set of goroutines. At most
// backlog jobs wait for a worker; further submissions fail fast with
// types.ErrPoolSaturated.
type WorkerPool struct {
	jobs   chan poolJob
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewWorkerPool(workers, backlog int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if backlog < 0 {
		backlog = 0
	}
	p := &WorkerPool{jobs: make(chan poolJob, backlog)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

func (p *WorkerPool) work() {
	defer p.wg.Done()
	for j := range p.jobs {
		if err := j.ctx.Err(); err != nil {
			j.done <- err
			continue
		}
		j.done <- j.fn(j.ctx)
	}
}

// Submit queues fn and blocks until it finishes or ctx is done. A job whose
// context ends while queued is skipped by the worker.
func (p *WorkerPool) Submit(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j := poolJob{ctx: ctx, fn: fn, done: make(chan error, 1)}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return types.ErrPoolSaturated
	}
	select {
	case p.jobs <- j:
	default:
		p.mu.RUnlock()
		return types.ErrPoolSaturated
	}
	p.mu.RUnlock()

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runOnPool submits fn and returns its value. The value travels over a
// channel, so a caller that stopped waiting on ctx never reads memory the
// worker is still writing.
func runOnPool[T any](ctx context.Context, p *WorkerPool, fn func(context.Context) (T, error)) (T, error) {
	out := make(chan T, 1)
	err := p.Submit(ctx, func(ctx context.Context) error {
		value, err := fn(ctx)
		if err != nil {
			return err
		}
		out <- value
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return <-out, nil
}

// Close stops accepting work and waits for queued jobs to drain.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
