package pool

import (
	"errors"
	"testing"
	"time"
)

func TestSemaphore_PostThenWait(t *testing.T) {
	s := newSemaphore()
	s.post()
	s.wait() // must not block
}

func TestSemaphore_WaitBlocksUntilPost(t *testing.T) {
	s := newSemaphore()
	released := make(chan struct{})

	go func() {
		s.wait()
		close(released)
	}()

	select {
	case <-released:
		t.Fatal("wait returned before post")
	case <-time.After(50 * time.Millisecond):
	}

	s.post()

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("wait did not return after post")
	}
}

func TestSemaphore_WaitTimeout(t *testing.T) {
	s := newSemaphore()

	start := time.Now()
	if s.waitTimeout(50 * time.Millisecond) {
		t.Fatal("waitTimeout acquired a resource that was never posted")
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("waitTimeout returned after %v, before the deadline", elapsed)
	}

	s.post()
	if !s.waitTimeout(time.Second) {
		t.Fatal("waitTimeout missed a posted resource")
	}
}

func TestResult_InvalidHandle(t *testing.T) {
	r := newResult(nil, false)

	if r.Valid() {
		t.Fatal("handle should be invalid")
	}

	done := make(chan Value, 1)
	go func() {
		done <- r.Get()
	}()

	select {
	case v := <-done:
		if !v.IsNil() {
			t.Errorf("invalid handle should yield the empty sentinel, got %v", v.Interface())
		}
	case <-time.After(time.Second):
		t.Fatal("Get on an invalid handle blocked")
	}
}

func TestResult_GetDeliversValue(t *testing.T) {
	r := newResult(TaskFunc(func() Value { return NewValue(1) }), true)

	go func() {
		time.Sleep(20 * time.Millisecond)
		r.setValue(NewValue("done"))
	}()

	got, err := Cast[string](r.Get())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done" {
		t.Errorf("expected %q, got %q", "done", got)
	}
}

func TestResult_SecondGetReturnsEmpty(t *testing.T) {
	r := newResult(TaskFunc(func() Value { return NewValue(1) }), true)
	r.setValue(NewValue(99))

	if v := r.Get(); v.IsNil() {
		t.Fatal("first Get should deliver the value")
	}
	if v := r.Get(); !v.IsNil() {
		t.Errorf("second Get should yield the empty sentinel, got %v", v.Interface())
	}
}

func TestResult_GetWithTimeout(t *testing.T) {
	r := newResult(TaskFunc(func() Value { return NewValue(1) }), true)

	_, err := r.GetWithTimeout(30 * time.Millisecond)
	if !errors.Is(err, ErrResultTimeout) {
		t.Fatalf("expected ErrResultTimeout, got %v", err)
	}

	// The value stays retrievable after a timed-out attempt.
	r.setValue(NewValue(7))
	v, err := r.GetWithTimeout(time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := Cast[int](v); n != 7 {
		t.Errorf("expected 7, got %v", v.Interface())
	}
}

func TestResult_IsReady(t *testing.T) {
	r := newResult(TaskFunc(func() Value { return NewValue(1) }), true)

	if r.IsReady() {
		t.Fatal("handle should not be ready before setValue")
	}

	r.setValue(NewValue(1))
	if !r.IsReady() {
		t.Fatal("handle should be ready after setValue")
	}

	if invalid := newResult(nil, false); !invalid.IsReady() {
		t.Fatal("an invalid handle never blocks, so it reports ready")
	}
}
