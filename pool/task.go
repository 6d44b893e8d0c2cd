package pool

import (
	"fmt"
	"runtime"
)

// Task is a user-supplied unit of work. Run is invoked exactly once on
// one of the pool's workers and its Value is delivered to the handle
// returned by Submit.
type Task interface {
	Run() Value
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc func() Value

// Run invokes the function.
func (f TaskFunc) Run() Value {
	return f()
}

// taskEntry pairs a queued task with the handle awaiting its result.
// The pairing lives in the queue entry, never in the task itself, so a
// handle dropped by the submitter leaves the worker with nothing stale
// to write through.
type taskEntry struct {
	task Task
	res  *Result
}

// exec runs the task and forwards whatever it produced to the handle.
// A panicking task still signals its handle, with an error-typed Value,
// so a submitter blocked in Get is never stranded.
func (e *taskEntry) exec() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			e.res.setValue(NewValue(fmt.Errorf("task panic: %v\nstack trace:\n%s", r, buf[:n])))
		}
	}()

	e.res.setValue(e.task.Run())
}
