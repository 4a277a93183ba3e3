// Package queue runs background jobs. Jobs register a name and a payload
// decoder; drivers move opaque envelopes. The redis driver survives
// restarts, the memory driver is for development and tests.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/travlrgetaways/travlr/config"
	"github.com/travlrgetaways/travlr/pkg/logger"
)

// Job is a unit of background work.
type Job interface {
	// Name identifies the job type on the wire.
	Name() string
	// Handle runs the job. A returned error triggers a retry.
	Handle(ctx context.Context) error
}

// Driver moves serialized job envelopes.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	// Pop blocks until a payload is available or ctx is done.
	Pop(ctx context.Context) ([]byte, error)
}

type envelope struct {
	Name     string          `json:"name"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

type failedJob struct {
	Name     string
	Payload  string
	Error    string
	FailedAt time.Time
}

const maxAttempts = 3

var (
	mu       sync.RWMutex
	driver   Driver
	decoders = map[string]func([]byte) (Job, error){}

	failedMu sync.Mutex
	failed   []failedJob
)

// Register installs a payload decoder for a job type. Call from init or
// during startup, before workers begin.
func Register(name string, decode func([]byte) (Job, error)) {
	mu.Lock()
	defer mu.Unlock()
	decoders[name] = decode
}

// Init picks the driver from QUEUE_DRIVER (memory or redis).
func Init() error {
	mu.Lock()
	defer mu.Unlock()

	switch config.QueueDriver() {
	case "redis":
		d, err := newRedisDriver()
		if err != nil {
			return err
		}
		driver = d
	case "memory", "":
		driver = newMemoryDriver()
	default:
		return fmt.Errorf("queue: unknown driver %q", config.QueueDriver())
	}

	return nil
}

// Dispatch serializes a job and pushes it onto the queue.
func Dispatch(ctx context.Context, job Job) error {
	mu.RLock()
	d := driver
	mu.RUnlock()
	if d == nil {
		return fmt.Errorf("queue: not initialized")
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal %s: %w", job.Name(), err)
	}

	env := envelope{Name: job.Name(), Payload: payload, Attempts: 0}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}

	return d.Push(ctx, raw)
}

// StartWorkers runs n consumers until ctx is cancelled.
func StartWorkers(ctx context.Context, n int) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			work(ctx, id)
		}(i)
	}
	return &wg
}

func work(ctx context.Context, id int) {
	mu.RLock()
	d := driver
	mu.RUnlock()
	if d == nil {
		return
	}

	for {
		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("queue: pop failed", "worker", id, "error", err)
			time.Sleep(time.Second)
			continue
		}

		process(ctx, d, raw, id)
	}
}

func process(ctx context.Context, d Driver, raw []byte, workerID int) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "worker", workerID, "error", err)
		return
	}

	mu.RLock()
	decode, ok := decoders[env.Name]
	mu.RUnlock()
	if !ok {
		logger.Error("queue: no decoder registered", "job", env.Name)
		return
	}

	job, err := decode(env.Payload)
	if err != nil {
		logger.Error("queue: decode payload", "job", env.Name, "error", err)
		return
	}

	if err := job.Handle(ctx); err == nil {
		return
	} else if env.Attempts+1 >= maxAttempts {
		logger.Error("queue: job failed permanently", "job", env.Name, "attempts", env.Attempts+1, "error", err)
		recordFailure(env, err)
		return
	} else {
		logger.Warn("queue: job failed, retrying", "job", env.Name, "attempt", env.Attempts+1, "error", err)
	}

	env.Attempts++
	retry, merr := json.Marshal(env)
	if merr != nil {
		return
	}

	// Simple linear backoff before requeueing.
	select {
	case <-time.After(time.Duration(env.Attempts) * time.Second):
	case <-ctx.Done():
		return
	}

	if err := d.Push(ctx, retry); err != nil {
		logger.Error("queue: requeue failed", "job", env.Name, "error", err)
	}
}

func recordFailure(env envelope, cause error) {
	failedMu.Lock()
	defer failedMu.Unlock()
	failed = append(failed, failedJob{
		Name:     env.Name,
		Payload:  string(env.Payload),
		Error:    cause.Error(),
		FailedAt: time.Now(),
	})
}

// FailedCount reports jobs that exhausted their retries since startup.
func FailedCount() int {
	failedMu.Lock()
	defer failedMu.Unlock()
	return len(failed)
}
