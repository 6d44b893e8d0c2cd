package pool

import (
	"testing"
	"time"
)

func TestPool_CachedGrowth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing-sensitive test in short mode")
	}

	p := New(WithMode(ModeCached), WithWorkerCeiling(4), WithIdleTimeout(200*time.Millisecond))
	if err := p.Start(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Shutdown(0)

	handles := make([]*Result, 0, 8)
	for range 8 {
		handles = append(handles, p.Submit(sleeper(500*time.Millisecond, 1)))
	}

	// Backlog exceeds the idle worker count, so the pool grows toward
	// the ceiling.
	waitFor(t, time.Second, func() bool { return p.WorkerCount() >= 3 }, "pool did not grow under backlog")
	if got := p.WorkerCount(); got > 4 {
		t.Fatalf("worker count %d exceeds ceiling 4", got)
	}

	for _, h := range handles {
		if v := h.Get(); v.IsNil() {
			t.Fatal("accepted task did not produce a value")
		}
	}

	// With no submissions, surplus workers retire until only the
	// initial worker remains.
	waitFor(t, 10*time.Second, func() bool { return p.WorkerCount() == 1 }, "idle workers were not reaped back to the initial count")
}

func TestPool_CachedCeilingQueuesWithoutSpawn(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing-sensitive test in short mode")
	}

	p := New(WithMode(ModeCached), WithWorkerCeiling(2))
	if err := p.Start(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Shutdown(0)

	handles := make([]*Result, 0, 6)
	for range 6 {
		handles = append(handles, p.Submit(sleeper(300*time.Millisecond, 1)))
	}

	if got := p.WorkerCount(); got != 2 {
		t.Errorf("worker count %d changed despite the ceiling", got)
	}
	if p.QueueDepth() == 0 {
		t.Error("excess tasks should queue once the ceiling is reached")
	}

	for _, h := range handles {
		h.Get()
	}
}

func TestPool_FixedModeNeverGrowsOrShrinks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing-sensitive test in short mode")
	}

	p := New(WithIdleTimeout(100 * time.Millisecond))
	if err := p.Start(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Shutdown(0)

	handles := make([]*Result, 0, 8)
	for range 8 {
		handles = append(handles, p.Submit(sleeper(100*time.Millisecond, 1)))
	}
	if got := p.WorkerCount(); got != 2 {
		t.Errorf("fixed pool grew to %d workers", got)
	}

	for _, h := range handles {
		h.Get()
	}

	// Idle fixed-mode workers are never reaped.
	time.Sleep(1500 * time.Millisecond)
	if got := p.WorkerCount(); got != 2 {
		t.Errorf("fixed pool shrank to %d workers", got)
	}
}

func TestPool_CachedReapKeepsInitialFloor(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing-sensitive test in short mode")
	}

	p := New(WithMode(ModeCached), WithWorkerCeiling(8), WithIdleTimeout(100*time.Millisecond))
	if err := p.Start(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Shutdown(0)

	// No load at all: the pool must hold its initial size.
	time.Sleep(2500 * time.Millisecond)
	if got := p.WorkerCount(); got != 3 {
		t.Errorf("idle reaping dropped below the initial count: %d", got)
	}
}
