package sender

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool(t *testing.T) {
	tests := []struct {
		name           string
		numTasks       int
		numWorkers     int
		expectedErrors int
	}{
		{
			name:           "Test worker pool with simple tasks",
			numTasks:       5,
			numWorkers:     2,
			expectedErrors: 0,
		},
		{
			name:           "Test worker pool with error in task",
			numTasks:       2,
			numWorkers:     2,
			expectedErrors: 1,
		},
		{
			name:           "Test worker pool with non-positive size",
			numTasks:       3,
			numWorkers:     0,
			expectedErrors: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wp := NewWorkerPool(tt.numWorkers)

			var mu sync.Mutex
			var taskExecutionCount int
			var errorCount int

			for i := 0; i < tt.numTasks; i++ {
				err := wp.AddTask(context.Background(), func() error {
					if i == tt.numTasks-1 && tt.expectedErrors > 0 {
						mu.Lock()
						errorCount++
						mu.Unlock()
						return assert.AnError
					}
					time.Sleep(20 * time.Millisecond)
					mu.Lock()
					taskExecutionCount++
					mu.Unlock()
					return nil
				})
				require.NoError(t, err, "failed to add task to pool")
			}

			wp.Close()

			assert.Equal(t, tt.numTasks-tt.expectedErrors, taskExecutionCount, "number of executed tasks does not match")
			assert.Equal(t, tt.expectedErrors, errorCount, "number of errors does not match")
		})
	}
}

func TestWorkerPool_AddTaskCanceled(t *testing.T) {
	wp := NewWorkerPool(1)
	defer wp.Close()

	block := make(chan struct{})
	var ran atomic.Int32
	require.NoError(t, wp.AddTask(context.Background(), func() error {
		<-block
		ran.Add(1)
		return nil
	}))
	// The single worker is busy and the buffer holds one task.
	require.NoError(t, wp.AddTask(context.Background(), func() error {
		ran.Add(1)
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := wp.AddTask(ctx, func() error {
		t.Error("Task should not be executed")
		return nil
	})

	close(block)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	wp.Close()
	assert.Equal(t, int32(2), ran.Load())
}

func TestWorkerPool_CloseTwice(t *testing.T) {
	wp := NewWorkerPool(2)
	wp.Close()
	assert.NotPanics(t, wp.Close)
}
