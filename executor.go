package fsm

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Executor runs machine work. Execute must not run task on the caller's goroutine
// and must not block waiting for task to finish.
type Executor interface {
	Execute(task func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(task func())

func (f ExecutorFunc) Execute(task func()) { f(task) }

// GoExecutor runs every task on its own goroutine.
var GoExecutor Executor = ExecutorFunc(func(task func()) { go task() })

// PoolExecutor bounds the number of tasks running at once across every machine
// that shares it.
type PoolExecutor struct {
	sem *semaphore.Weighted
}

// NewPoolExecutor returns an executor running at most size tasks concurrently.
func NewPoolExecutor(size int) *PoolExecutor {
	if size < 1 {
		size = 1
	}

	return &PoolExecutor{sem: semaphore.NewWeighted(int64(size))}
}

// Execute schedules task. The caller never waits for a free slot.
func (p *PoolExecutor) Execute(task func()) {
	go func() {
		// Acquire only fails for a cancelled context.
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)

		task()
	}()
}
