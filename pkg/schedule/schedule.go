// Package schedule runs recurring tasks with a fluent builder:
//
//	s := schedule.New()
//	s.Task("purge-guests", purge).Daily()
//	s.Start(ctx)
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/travlrgetaways/travlr/pkg/logger"
)

type TaskFunc func(ctx context.Context) error

type Task struct {
	name     string
	fn       TaskFunc
	interval time.Duration
}

type Scheduler struct {
	mu    sync.Mutex
	tasks []*Task
}

func New() *Scheduler {
	return &Scheduler{}
}

// Task registers a named task. Chain an interval method to arm it.
func (s *Scheduler) Task(name string, fn TaskFunc) *Task {
	t := &Task{name: name, fn: fn}
	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	return t
}

func (t *Task) Every(d time.Duration) *Task {
	t.interval = d
	return t
}

func (t *Task) Hourly() *Task {
	return t.Every(time.Hour)
}

func (t *Task) Daily() *Task {
	return t.Every(24 * time.Hour)
}

// Start launches one goroutine per armed task. Each task also runs once
// shortly after startup so a restarted server does not wait a full
// interval for overdue maintenance.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	tasks := append([]*Task(nil), s.tasks...)
	s.mu.Unlock()

	for _, t := range tasks {
		if t.interval <= 0 {
			logger.Warn("schedule: task has no interval, skipping", "task", t.name)
			continue
		}
		go run(ctx, t)
	}
}

func run(ctx context.Context, t *Task) {
	startup := time.After(time.Minute)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-startup:
			fire(ctx, t)
		case <-ticker.C:
			fire(ctx, t)
		}
	}
}

func fire(ctx context.Context, t *Task) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("schedule: task panicked", "task", t.name, "panic", rec)
		}
	}()

	start := time.Now()
	if err := t.fn(ctx); err != nil {
		logger.Error("schedule: task failed", "task", t.name, "error", err)
		return
	}
	logger.Info("schedule: task done", "task", t.name, "duration_ms", time.Since(start).Milliseconds())
}
