// Package syncx holds small synchronization primitives shared by the
// pool internals.
package syncx

import (
	"sync"
	"time"
)

// Cond is a condition variable keyed to an external Locker, supporting
// broadcast wake-ups and timed waits. Unlike sync.Cond there is no
// Signal: every notification wakes all waiters, and waiters must
// re-test their predicate in a loop to absorb spurious wake-ups.
type Cond struct {
	L  sync.Locker
	ch chan struct{}
}

// NewCond returns a condition variable bound to l.
func NewCond(l sync.Locker) *Cond {
	return &Cond{L: l, ch: make(chan struct{})}
}

// Wait atomically releases the lock and suspends the calling goroutine
// until the next Broadcast. The lock is reacquired before Wait returns.
func (c *Cond) Wait() {
	ch := c.ch
	c.L.Unlock()
	<-ch
	c.L.Lock()
}

// WaitTimeout is Wait with a deadline. It reports whether a Broadcast
// arrived before the timeout elapsed. The lock is reacquired before it
// returns in either case.
func (c *Cond) WaitTimeout(d time.Duration) bool {
	ch := c.ch
	c.L.Unlock()
	defer c.L.Lock()

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ch:
		return true
	case <-t.C:
		return false
	}
}

// Broadcast wakes every goroutine currently suspended in Wait or
// WaitTimeout. The caller must hold the lock.
func (c *Cond) Broadcast() {
	close(c.ch)
	c.ch = make(chan struct{})
}
