package workerpool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shashiranjanraj/catalogue/pkg/workerpool"
)

// submit retries on backpressure until the task is accepted.
func submit(t *testing.T, p *workerpool.Pool, task func()) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		err := p.Submit(task)
		if err == nil {
			return
		}
		if !errors.Is(err, workerpool.ErrPoolFull) || time.Now().After(deadline) {
			t.Fatalf("Submit: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPool_SubmitAndExecute(t *testing.T) {
	pool := workerpool.New("test", 4)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		submit(t, pool, func() {
			defer wg.Done()
			count.Add(1)
		})
	}
	wg.Wait()

	if got := count.Load(); got != n {
		t.Errorf("expected %d tasks to run, got %d", n, got)
	}
}

func TestPool_ErrPoolFull(t *testing.T) {
	pool := workerpool.New("test", 1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})

	submit(t, pool, func() {
		close(started)
		<-blocker
	})
	<-started

	// buffer is 2× the worker count
	_ = pool.Submit(func() {})
	_ = pool.Submit(func() {})

	if err := pool.Submit(func() {}); !errors.Is(err, workerpool.ErrPoolFull) {
		t.Errorf("expected ErrPoolFull, got %v", err)
	}
	close(blocker)
}

func TestPool_ErrPoolClosed(t *testing.T) {
	pool := workerpool.New("test", 2)
	pool.Shutdown()
	pool.Shutdown()

	if err := pool.Submit(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed after Shutdown, got %v", err)
	}
}

func TestPool_ShutdownDrainsQueue(t *testing.T) {
	pool := workerpool.New("test", 1)

	var count atomic.Int64
	for i := 0; i < 2; i++ {
		submit(t, pool, func() {
			time.Sleep(5 * time.Millisecond)
			count.Add(1)
		})
	}
	pool.Shutdown()

	if got := count.Load(); got != 2 {
		t.Errorf("expected queued tasks to finish before Shutdown returns, got %d", got)
	}
}

func TestPool_PanicRecovery(t *testing.T) {
	pool := workerpool.New("test", 1)
	defer pool.Shutdown()

	submit(t, pool, func() { panic("boom") })

	done := make(chan struct{})
	submit(t, pool, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive a panicking task")
	}
}
