// Package pool provides an elastic worker pool with future-style
// result handles.
//
// The primary type is Pool, which dispatches submitted tasks across a
// managed set of workers and hands the submitter a Result through which
// the task's value is retrieved. The pool runs in one of two regimes:
// fixed, which provisions a constant worker count at Start, and cached,
// which grows the worker set on demand up to a ceiling and retires
// workers after a configurable idle period.
//
// # Basic Usage
//
//	p := pool.New()
//	if err := p.Start(4); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown(0)
//
//	res := p.Submit(pool.TaskFunc(func() pool.Value {
//	    return pool.NewValue(42)
//	}))
//	n, err := pool.Cast[int](res.Get())
//
// # Regimes
//
// A fixed pool keeps exactly the worker count given to Start. A cached
// pool spawns one additional worker whenever the queued backlog exceeds
// the idle worker count (up to the ceiling), and a surplus worker
// retires itself after staying idle past the reap threshold:
//
//	p := pool.New(
//	    pool.WithMode(pool.ModeCached),
//	    pool.WithWorkerCeiling(64),
//	)
//
// # Submission and Results
//
// Submit blocks for at most one second when the task queue is at its
// bound; if no slot frees up in time the task is rejected and the
// returned handle is invalid. Get on an invalid handle returns the
// empty Value immediately rather than blocking forever.
//
// Result values are type-erased. Cast recovers the concrete type:
//
//	sum, err := pool.Cast[uint64](res.Get())
//	if errors.Is(err, pool.ErrTypeMismatch) {
//	    // the task produced something else
//	}
//
// # Shutdown
//
// Shutdown stops the pool and blocks until every worker has exited.
// Tasks already on the queue are executed first; workers only observe
// the stopped state once the queue is empty.
//
// # Configuration Options
//
//   - WithMode(m): fixed or cached regime (default: fixed)
//   - WithQueueBound(n): pending-task ceiling (default: math.MaxInt32)
//   - WithWorkerCeiling(n): cached-regime worker ceiling (default: 1024)
//   - WithIdleTimeout(d): cached-regime reap threshold (default: 2s)
//   - WithRateLimit(tps, burst): throttle task execution
//   - WithMetrics(m): export Prometheus metrics
//
// The first three knobs are also available as pre-start setters (SetMode,
// SetQueueBound, SetWorkerCeiling) for callers that configure a pool
// after constructing it; setters invoked on a running pool are ignored.
package pool
