package pool

import (
	"math"
	"time"

	"golang.org/x/time/rate"
)

// Mode selects the pool's operating regime.
type Mode int

const (
	// ModeFixed provisions a constant worker count at Start.
	ModeFixed Mode = iota
	// ModeCached grows the worker set on demand up to the ceiling and
	// retires workers that stay idle past the reap threshold.
	ModeCached
)

func (m Mode) String() string {
	switch m {
	case ModeFixed:
		return "fixed"
	case ModeCached:
		return "cached"
	default:
		return "unknown"
	}
}

const (
	// DefaultQueueBound is the pending-task ceiling used when none is
	// configured.
	DefaultQueueBound = math.MaxInt32

	// DefaultWorkerCeiling is the cached-regime worker ceiling used
	// when none is configured.
	DefaultWorkerCeiling = 1024

	// DefaultIdleTimeout is how long a surplus cached-regime worker
	// must stay idle before it may retire.
	DefaultIdleTimeout = 2 * time.Second

	// submitWait bounds how long Submit blocks on a full queue before
	// rejecting the task.
	submitWait = time.Second

	// workerTick is the cached-regime dequeue wait granularity; each
	// expiry gives an idle worker a chance to reap itself.
	workerTick = time.Second
)

// Option is a functional option for configuring the pool.
type Option func(*poolConfig)

type poolConfig struct {
	mode          Mode
	queueBound    int
	workerCeiling int
	idleTimeout   time.Duration
	rateLimiter   *rate.Limiter
	metrics       *Metrics
}

func defaultConfig() *poolConfig {
	return &poolConfig{
		mode:          ModeFixed,
		queueBound:    DefaultQueueBound,
		workerCeiling: DefaultWorkerCeiling,
		idleTimeout:   DefaultIdleTimeout,
	}
}

// WithMode selects the operating regime.
// If not specified, defaults to ModeFixed.
func WithMode(m Mode) Option {
	return func(cfg *poolConfig) {
		cfg.mode = m
	}
}

// WithQueueBound sets the maximum number of pending tasks. Submitters
// block for up to one second when the queue is at the bound, then the
// submission is rejected. A bound of zero rejects every submission.
func WithQueueBound(n int) Option {
	return func(cfg *poolConfig) {
		if n >= 0 {
			cfg.queueBound = n
		}
	}
}

// WithWorkerCeiling sets the cached-regime worker ceiling.
// If not specified, defaults to DefaultWorkerCeiling.
func WithWorkerCeiling(n int) Option {
	return func(cfg *poolConfig) {
		if n > 0 {
			cfg.workerCeiling = n
		}
	}
}

// WithIdleTimeout sets how long a surplus cached-regime worker must
// stay idle before retiring. If not specified, defaults to
// DefaultIdleTimeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(cfg *poolConfig) {
		if d > 0 {
			cfg.idleTimeout = d
		}
	}
}

// WithRateLimit throttles task execution across all workers.
// tasksPerSecond specifies the maximum sustained execution rate, burst
// the maximum burst size. This is useful when tasks call external
// services that must not be overwhelmed. If not specified, no rate
// limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // execute 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *poolConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithMetrics attaches Prometheus collectors to the pool. The pool
// updates them as tasks flow through; registering them is the caller's
// responsibility (see Metrics.Register).
func WithMetrics(m *Metrics) Option {
	return func(cfg *poolConfig) {
		cfg.metrics = m
	}
}
