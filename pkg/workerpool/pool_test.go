package workerpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolProcessesTasks(t *testing.T) {
	var processed int64
	pool, err := New(Config{Workers: 4, QueueSize: 16}, func(_ context.Context, task *Task) *Result {
		atomic.AddInt64(&processed, 1)
		return &Result{TaskID: task.ID, Success: true}
	}, nil)
	require.NoError(t, err)

	pool.Start()
	for i := 0; i < 8; i++ {
		require.NoError(t, pool.Submit(&Task{ID: "t", Context: context.Background()}))
	}

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&processed) == 8
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, pool.Stop())
	assert.Equal(t, int64(8), pool.Stats().TasksCompleted)
}

func TestPoolRetriesFailedTasks(t *testing.T) {
	var attempts int64
	pool, err := New(Config{
		Workers:    1,
		QueueSize:  4,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}, func(_ context.Context, task *Task) *Result {
		n := atomic.AddInt64(&attempts, 1)
		return &Result{TaskID: task.ID, Success: n >= 3}
	}, nil)
	require.NoError(t, err)

	pool.Start()
	require.NoError(t, pool.Submit(&Task{ID: "flaky", Context: context.Background()}))

	assert.Eventually(t, func() bool {
		return pool.Stats().TasksCompleted == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, pool.Stop())
	assert.Equal(t, int64(3), atomic.LoadInt64(&attempts))
	assert.Equal(t, int64(2), pool.Stats().TasksRetried)
}

func TestPoolRejectsSubmitAfterStop(t *testing.T) {
	pool, err := New(Config{Workers: 1, QueueSize: 1}, func(_ context.Context, task *Task) *Result {
		return &Result{TaskID: task.ID, Success: true}
	}, nil)
	require.NoError(t, err)

	pool.Start()
	require.NoError(t, pool.Stop())

	assert.Error(t, pool.Submit(&Task{ID: "late"}))
}

func TestNewRequiresWorkerFunc(t *testing.T) {
	_, err := New(DefaultConfig(), nil, nil)
	require.Error(t, err)
}
