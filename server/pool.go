package server

import (
	"context"
	"sync"
)

// WorkerPool is the idiomatic-Go rendering of spec §5's "fixed worker
// pool (default four) draining a request queue": a bounded set of
// goroutines pulling jobs off a shared, unbuffered channel in place of
// the spec's mutex+condvar+FIFO-queue description.
type WorkerPool struct {
	jobs   chan func()
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewWorkerPool starts n workers immediately.
func NewWorkerPool(n int) *WorkerPool {
	p := &WorkerPool{
		jobs:   make(chan func()),
		stopCh: make(chan struct{}),
	}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.work()
	}
	return p
}

func (p *WorkerPool) work() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			job()
		case <-p.stopCh:
			return
		}
	}
}

// Submit enqueues job for execution by some worker. Submit after
// Shutdown has been called is a no-op: the job is dropped rather than
// leaking a blocked goroutine.
func (p *WorkerPool) Submit(job func()) {
	select {
	case p.jobs <- job:
	case <-p.stopCh:
	}
}

// Shutdown raises the stop flag and waits, bounded by ctx, for every
// worker to observe it and exit (spec §5 "Cancellation and shutdown").
func (p *WorkerPool) Shutdown(ctx context.Context) error {
	close(p.stopCh)
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
