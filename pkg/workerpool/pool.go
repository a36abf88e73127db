// Package workerpool provides a bounded goroutine pool with backpressure.
//
// When every worker is busy and the buffer is full, Submit returns
// ErrPoolFull immediately so the caller can drop or retry the task.
//
//	pool := workerpool.New("mail", 4)
//	defer pool.Shutdown()
//
//	if err := pool.Submit(func() { notify(e) }); err != nil {
//	    logger.Warn("notification dropped", "error", err)
//	}
package workerpool

import (
	"errors"
	"sync"

	"github.com/shashiranjanraj/catalogue/pkg/logger"
)

var ErrPoolFull = errors.New("workerpool: pool is full")

var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
type Pool struct {
	name   string
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// New starts size workers. The queue buffers 2×size tasks.
func New(name string, size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		name:  name,
		tasks: make(chan func(), size*2),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish. It is
// safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

// run executes task, recovering from panics so one bad task does not kill
// the worker.
func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "pool", p.name, "panic", r)
		}
	}()
	task()
}
