package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	Tag string `json:"tag"`

	handled *atomic.Int32
	failFor *atomic.Int32
}

func (j *countingJob) Name() string { return "counting-job" }

func (j *countingJob) Handle(context.Context) error {
	if j.failFor != nil && j.failFor.Add(-1) >= 0 {
		return errors.New("transient failure")
	}
	if j.handled != nil {
		j.handled.Add(1)
	}
	return nil
}

func setupQueue(t *testing.T, handled, failFor *atomic.Int32) context.CancelFunc {
	t.Helper()

	mu.Lock()
	driver = newMemoryDriver()
	mu.Unlock()

	Register("counting-job", func(payload []byte) (Job, error) {
		var job countingJob
		if err := json.Unmarshal(payload, &job); err != nil {
			return nil, err
		}
		job.handled = handled
		job.failFor = failFor
		return &job, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	StartWorkers(ctx, 2)
	return cancel
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatal("condition not met in time")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestDispatchAndHandle(t *testing.T) {
	var handled atomic.Int32
	cancel := setupQueue(t, &handled, nil)
	defer cancel()

	require.NoError(t, Dispatch(context.Background(), &countingJob{Tag: "a"}))
	require.NoError(t, Dispatch(context.Background(), &countingJob{Tag: "b"}))

	waitFor(t, func() bool { return handled.Load() == 2 })
}

func TestRetryUntilSuccess(t *testing.T) {
	var handled, failFor atomic.Int32
	failFor.Store(2) // fail twice, succeed on the third attempt
	cancel := setupQueue(t, &handled, &failFor)
	defer cancel()

	require.NoError(t, Dispatch(context.Background(), &countingJob{Tag: "retry"}))

	waitFor(t, func() bool { return handled.Load() == 1 })
}

func TestDispatchWithoutDriver(t *testing.T) {
	mu.Lock()
	saved := driver
	driver = nil
	mu.Unlock()
	defer func() {
		mu.Lock()
		driver = saved
		mu.Unlock()
	}()

	err := Dispatch(context.Background(), &countingJob{})
	assert.Error(t, err)
}
