// Package schedule runs periodic background jobs such as the cascade
// reconciliation sweep.
//
//	s := schedule.New()
//	s.Every(15*time.Minute, "cascade:reconcile", func(ctx context.Context) error {
//	    _, err := coordinator.Reconcile(ctx, "scheduler")
//	    return err
//	})
//	s.Start(ctx) // returns at once; jobs stop when ctx ends
//	defer s.Wait()
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/catalogue/pkg/logger"
)

// Task is one run of a job. The context ends when the scheduler stops.
type Task func(ctx context.Context) error

type job struct {
	name     string
	interval time.Duration
	task     Task
}

// Scheduler runs each job on its own ticker. A job never overlaps itself:
// a tick that arrives while the previous run is busy is dropped.
type Scheduler struct {
	mu   sync.Mutex
	jobs []job
	wg   sync.WaitGroup
}

func New() *Scheduler { return &Scheduler{} }

// Every registers task to run each interval, starting one interval after
// Start. Non-positive intervals are ignored.
func (s *Scheduler) Every(interval time.Duration, name string, task Task) {
	if interval <= 0 || task == nil {
		return
	}
	s.mu.Lock()
	s.jobs = append(s.jobs, job{name: name, interval: interval, task: task})
	s.mu.Unlock()
}

// Start launches every registered job.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]job(nil), s.jobs...)
	s.mu.Unlock()

	for _, j := range jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
	if len(jobs) > 0 {
		logger.Info("schedule: started", "jobs", len(jobs))
	}
}

// Wait blocks until every job loop has returned.
func (s *Scheduler) Wait() { s.wg.Wait() }

// List describes the registered jobs for the CLI.
func (s *Scheduler) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, fmt.Sprintf("%s  [every %s]", j.name, j.interval))
	}
	return out
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	defer s.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run(ctx, j)
		}
	}
}

func run(ctx context.Context, j job) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("schedule: job panicked", "job", j.name, "panic", r)
		}
	}()
	if err := j.task(ctx); err != nil {
		logger.Error("schedule: job failed", "job", j.name, "error", err, "took", time.Since(start).String())
		return
	}
	logger.Debug("schedule: job done", "job", j.name, "took", time.Since(start).String())
}
