package pool

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/go-taskpool/taskpool/internal/syncx"
)

var (
	// ErrAlreadyStarted is returned by Start on a pool that has already
	// been started, whether or not it has since been shut down.
	ErrAlreadyStarted = errors.New("pool already started")

	// ErrNotStarted is returned by Shutdown on a pool that was never
	// started.
	ErrNotStarted = errors.New("pool not started")

	// ErrAlreadyShutdown is returned by Shutdown on a pool that has
	// already been shut down.
	ErrAlreadyShutdown = errors.New("pool already shut down")

	// ErrShutdownTimeout is returned by Shutdown when workers did not
	// drain within the given timeout.
	ErrShutdownTimeout = errors.New("error in shutting down: timeout reached")
)

// Pool dispatches submitted tasks across a managed set of workers and
// returns a Result handle per task. Construct with New, configure
// before Start, submit with Submit, and stop with Shutdown.
type Pool struct {
	mode          Mode
	queueBound    int
	workerCeiling int
	idleTimeout   time.Duration

	initialWorkers int

	mu       sync.Mutex
	queue    []*taskEntry
	workers  map[uint64]*worker
	notFull  *syncx.Cond
	notEmpty *syncx.Cond
	exit     *syncx.Cond

	taskSize    atomic.Int64
	idleWorkers atomic.Int64
	workerCount atomic.Int64
	running     atomic.Bool
	started     atomic.Bool
	stopped     atomic.Bool

	limiter *rate.Limiter
	metrics *Metrics
	log     *log.Entry
}

// New constructs a stopped pool with default configuration: fixed
// regime, queue bound math.MaxInt32, worker ceiling 1024, idle reap
// threshold of two seconds.
func New(opts ...Option) *Pool {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	p := &Pool{
		mode:          cfg.mode,
		queueBound:    cfg.queueBound,
		workerCeiling: cfg.workerCeiling,
		idleTimeout:   cfg.idleTimeout,
		workers:       make(map[uint64]*worker),
		limiter:       cfg.rateLimiter,
		metrics:       cfg.metrics,
		log:           log.WithField("pool", uuid.NewString()),
	}
	p.notFull = syncx.NewCond(&p.mu)
	p.notEmpty = syncx.NewCond(&p.mu)
	p.exit = syncx.NewCond(&p.mu)
	return p
}

// SetMode records the operating regime. Ignored once the pool is
// running.
func (p *Pool) SetMode(m Mode) {
	if p.running.Load() {
		p.log.Debug("SetMode ignored: pool already started")
		return
	}
	p.mode = m
}

// SetQueueBound records the pending-task ceiling. Ignored once the
// pool is running.
func (p *Pool) SetQueueBound(n int) {
	if p.running.Load() {
		p.log.Debug("SetQueueBound ignored: pool already started")
		return
	}
	if n >= 0 {
		p.queueBound = n
	}
}

// SetWorkerCeiling records the cached-regime worker ceiling. Ignored
// once the pool is running or when the regime is fixed.
func (p *Pool) SetWorkerCeiling(n int) {
	if p.running.Load() {
		p.log.Debug("SetWorkerCeiling ignored: pool already started")
		return
	}
	if p.mode == ModeCached && n > 0 {
		p.workerCeiling = n
	}
}

// Start transitions the pool to running and launches initialWorkers
// workers. initialWorkers also becomes the cached-regime floor below
// which idle reaping never shrinks the pool. A value <= 0 defaults to
// runtime.NumCPU(). Starting twice fails with ErrAlreadyStarted.
func (p *Pool) Start(initialWorkers int) error {
	if initialWorkers <= 0 {
		initialWorkers = runtime.NumCPU()
	}

	if !p.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	p.initialWorkers = initialWorkers
	p.running.Store(true)

	p.mu.Lock()
	for range initialWorkers {
		p.spawnLocked()
	}
	p.mu.Unlock()

	p.log.WithFields(log.Fields{
		"mode":    p.mode.String(),
		"workers": initialWorkers,
	}).Debug("pool started")
	return nil
}

// Submit hands one task to the pool and returns the handle through
// which its value is retrieved. When the queue is at its bound the
// submitter blocks for at most one second waiting for space; if none
// frees up the task is rejected and the returned handle is invalid,
// so Get on it yields the empty Value immediately. A nil task and a
// submission to a pool that is not running are rejected the same way.
//
// In the cached regime, a submission whose backlog exceeds the idle
// worker count spawns one additional worker, up to the ceiling.
func (p *Pool) Submit(task Task) *Result {
	if task == nil || !p.running.Load() {
		return newResult(task, false)
	}

	res := newResult(task, true)
	deadline := time.Now().Add(submitWait)

	p.mu.Lock()
	for len(p.queue) >= p.queueBound {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			p.mu.Unlock()
			p.log.WithField("bound", p.queueBound).Warn("task queue is full, submit failed")
			p.metrics.rejected()
			return newResult(task, false)
		}
		p.notFull.WaitTimeout(remaining)
	}

	// Re-test under the lock: a pool shutting down concurrently must
	// not accept a task no worker will ever dequeue.
	if !p.running.Load() {
		p.mu.Unlock()
		return newResult(task, false)
	}

	p.queue = append(p.queue, &taskEntry{task: task, res: res})
	p.taskSize.Add(1)
	p.metrics.setQueueDepth(len(p.queue))
	p.notEmpty.Broadcast()

	// A task only waits when no idle worker can take it; spawning is
	// the remedy, up to the ceiling.
	if p.mode == ModeCached &&
		p.taskSize.Load() > p.idleWorkers.Load() &&
		p.workerCount.Load() < int64(p.workerCeiling) {
		p.spawnLocked()
	}
	p.mu.Unlock()

	p.metrics.submitted()
	return res
}

// Shutdown stops the pool and blocks until every worker has exited.
// Workers drain tasks already on the queue before they observe the
// stopped state, so nothing accepted is left unexecuted. A timeout
// <= 0 waits forever; otherwise ErrShutdownTimeout is returned once it
// elapses, with workers still winding down in the background.
func (p *Pool) Shutdown(timeout time.Duration) error {
	if !p.started.Load() {
		return ErrNotStarted
	}
	if !p.stopped.CompareAndSwap(false, true) {
		return ErrAlreadyShutdown
	}

	p.running.Store(false)

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.notEmpty.Broadcast()
	for len(p.workers) > 0 {
		if timeout <= 0 {
			p.exit.Wait()
			continue
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrShutdownTimeout
		}
		p.exit.WaitTimeout(remaining)
	}

	p.log.Debug("pool shut down")
	return nil
}

// Running reports whether the pool accepts submissions.
func (p *Pool) Running() bool {
	return p.running.Load()
}

// WorkerCount returns the current number of workers in the registry.
func (p *Pool) WorkerCount() int {
	return int(p.workerCount.Load())
}

// IdleWorkers returns the number of workers currently waiting for a
// task.
func (p *Pool) IdleWorkers() int {
	return int(p.idleWorkers.Load())
}

// QueueDepth returns the number of pending tasks.
func (p *Pool) QueueDepth() int {
	return int(p.taskSize.Load())
}

// spawnLocked creates, registers and launches one worker. The caller
// holds p.mu.
func (p *Pool) spawnLocked() {
	w := newWorker(p.dispatch)
	p.workers[w.id] = w
	count := p.workerCount.Add(1)
	idle := p.idleWorkers.Add(1)
	p.metrics.setWorkers(count, idle)
	w.start()
	p.log.WithField("worker", w.id).Debug("worker started")
}

// removeWorkerLocked erases a worker from the registry and fixes the
// counters. The caller holds p.mu; the departing worker is idle.
func (p *Pool) removeWorkerLocked(id uint64) {
	delete(p.workers, id)
	count := p.workerCount.Add(-1)
	idle := p.idleWorkers.Add(-1)
	p.metrics.setWorkers(count, idle)
}

// dispatch is the loop every worker runs until shutdown or, in the
// cached regime, self-retirement. The shutdown check comes first inside
// the empty-queue loop, so it takes precedence over idle reaping.
func (p *Pool) dispatch(id uint64) {
	lastActive := time.Now()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 {
			if !p.running.Load() {
				p.removeWorkerLocked(id)
				p.exit.Broadcast()
				p.mu.Unlock()
				p.log.WithField("worker", id).Debug("worker exit on shutdown")
				return
			}

			if p.mode == ModeCached {
				if !p.notEmpty.WaitTimeout(workerTick) &&
					time.Since(lastActive) >= p.idleTimeout &&
					p.workerCount.Load() > int64(p.initialWorkers) {
					p.removeWorkerLocked(id)
					p.mu.Unlock()
					p.log.WithField("worker", id).Debug("idle worker retired")
					return
				}
			} else {
				p.notEmpty.Wait()
			}
		}

		p.idleWorkers.Add(-1)
		entry := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.taskSize.Add(-1)
		p.metrics.setQueueDepth(len(p.queue))

		if len(p.queue) > 0 {
			p.notEmpty.Broadcast()
		}
		p.notFull.Broadcast()
		p.mu.Unlock()

		if entry != nil {
			if p.limiter != nil {
				_ = p.limiter.Wait(context.Background())
			}
			started := time.Now()
			entry.exec()
			p.metrics.completed(time.Since(started))
		}

		idle := p.idleWorkers.Add(1)
		p.metrics.setWorkers(p.workerCount.Load(), idle)
		lastActive = time.Now()
	}
}
