package executor

import (
	"context"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestExecutor_Exec(t *testing.T) {
	var success = false
	executor := NewExecutor(func() error {
		success = true
		return nil
	})
	assert.False(t, executor.Executed())
	assert.NoError(t, executor.Err())
	assert.True(t, executor.Exec())
	select {
	case <-executor.Done():
		t.Log("success")
	case <-time.After(2 * time.Millisecond):
		t.Errorf("can't happend")
	}
	assert.True(t, success)
	assert.True(t, executor.Executed())
	assert.False(t, executor.Exec())
}

func TestExecutor_execError(t *testing.T) {
	want := errors.New("write failed")
	executor := Completed(func() error { return want })
	assert.True(t, executor.Executed())
	assert.Equal(t, want, executor.Err())
	assert.Equal(t, want, executor.Wait(context.Background()))
}

func TestExecutor_execPanic(t *testing.T) {
	executor := NewExecutor(func() error {
		panic("boom")
	})
	assert.NotPanics(t, func() {
		executor.Exec()
	})
	select {
	case <-executor.Done():
		t.Log("success")
	case <-time.After(2 * time.Millisecond):
		t.Errorf("can't happend")
	}
	assert.EqualError(t, executor.Err(), "recovered from panic: boom")
	assert.False(t, executor.Exec())
}

func TestExecutor_WaitCanceled(t *testing.T) {
	executor := NewExecutor(func() error { return nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, executor.Wait(ctx), context.Canceled)
	assert.False(t, executor.Executed())
}
