package pool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pool's Prometheus collectors. Attach with
// WithMetrics; every update is nil-safe, so a pool without metrics
// pays nothing.
type Metrics struct {
	TasksSubmitted prometheus.Counter
	TasksCompleted prometheus.Counter
	TasksRejected  prometheus.Counter
	WorkerCount    prometheus.Gauge
	IdleWorkers    prometheus.Gauge
	QueueDepth     prometheus.Gauge
	TaskLatency    prometheus.Histogram
}

// NewMetrics creates the pool's collectors under the given namespace
// and subsystem.
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		TasksSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks accepted by the pool",
		}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_completed_total",
			Help:      "Total number of tasks executed to completion",
		}),
		TasksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_rejected_total",
			Help:      "Total number of submissions rejected on a full queue",
		}),
		WorkerCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workers",
			Help:      "Current number of workers in the registry",
		}),
		IdleWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "idle_workers",
			Help:      "Current number of workers waiting for a task",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_depth",
			Help:      "Current number of pending tasks",
		}),
		TaskLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "task_duration_seconds",
			Help:      "Task execution time",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Register registers every collector with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.TasksSubmitted,
		m.TasksCompleted,
		m.TasksRejected,
		m.WorkerCount,
		m.IdleWorkers,
		m.QueueDepth,
		m.TaskLatency,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) submitted() {
	if m == nil {
		return
	}
	m.TasksSubmitted.Inc()
}

func (m *Metrics) rejected() {
	if m == nil {
		return
	}
	m.TasksRejected.Inc()
}

func (m *Metrics) completed(d time.Duration) {
	if m == nil {
		return
	}
	m.TasksCompleted.Inc()
	m.TaskLatency.Observe(d.Seconds())
}

func (m *Metrics) setWorkers(count, idle int64) {
	if m == nil {
		return
	}
	m.WorkerCount.Set(float64(count))
	m.IdleWorkers.Set(float64(idle))
}

func (m *Metrics) setQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}
