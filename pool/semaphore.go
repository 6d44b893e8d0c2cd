package pool

import (
	"sync"
	"time"

	"github.com/go-taskpool/taskpool/internal/syncx"
)

// semaphore is a counting semaphore. The pool uses it with an initial
// count of zero as a one-shot completion signal between the worker that
// executed a task and the submitter blocked in Result.Get.
type semaphore struct {
	mu    sync.Mutex
	cond  *syncx.Cond
	count int
}

func newSemaphore() *semaphore {
	s := &semaphore{}
	s.cond = syncx.NewCond(&s.mu)
	return s
}

// post increments the counter and wakes waiters.
func (s *semaphore) post() {
	s.mu.Lock()
	s.count++
	s.cond.Broadcast()
	s.mu.Unlock()
}

// wait blocks until the counter is positive, then decrements it.
func (s *semaphore) wait() {
	s.mu.Lock()
	for s.count == 0 {
		s.cond.Wait()
	}
	s.count--
	s.mu.Unlock()
}

// waitTimeout is wait with a deadline. It reports whether a resource
// was acquired before the timeout elapsed.
func (s *semaphore) waitTimeout(d time.Duration) bool {
	deadline := time.Now().Add(d)

	s.mu.Lock()
	defer s.mu.Unlock()
	for s.count == 0 {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		s.cond.WaitTimeout(remaining)
	}
	s.count--
	return true
}

// ready reports whether wait would return without blocking.
func (s *semaphore) ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count > 0
}
