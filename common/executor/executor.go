package executor

import (
	"context"
	"github.com/RuiFG/storagebox/common/safe"
	"sync/atomic"
)

// Executor runs a task at most once and keeps its outcome,
// callers can select on Done or block in Wait.
type Executor struct {
	exec func() error
	//0:no process //1: executed
	status uint32
	err    error
	done   chan struct{}
}

func (e *Executor) Executed() bool {
	return atomic.LoadUint32(&e.status) == 1
}

// Exec runs the task, a panic inside it becomes the outcome error.
// It returns false if the task has already been executed.
func (e *Executor) Exec() bool {
	if atomic.CompareAndSwapUint32(&e.status, 0, 1) {
		defer close(e.done)
		e.err = safe.Run(e.exec)
		return true
	} else {
		return false
	}
}

func (e *Executor) Done() <-chan struct{} {
	return e.done
}

// Err returns the outcome of the task, nil while it has not finished.
func (e *Executor) Err() error {
	select {
	case <-e.done:
		return e.err
	default:
		return nil
	}
}

func (e *Executor) Wait(ctx context.Context) error {
	select {
	case <-e.done:
		return e.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func NewExecutor(exec func() error) *Executor {
	return &Executor{
		exec:   exec,
		status: 0,
		done:   make(chan struct{}),
	}
}

// Completed executes exec before returning, the returned executor is already done.
func Completed(exec func() error) *Executor {
	e := NewExecutor(exec)
	e.Exec()
	return e
}
