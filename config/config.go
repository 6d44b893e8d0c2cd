// Package config loads pool configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-taskpool/taskpool/pool"
)

// Config is the on-disk pool configuration.
//
// Zero values select the pool defaults, so a minimal file only names
// what it changes:
//
//	mode: cached
//	worker-ceiling: 64
//	idle-timeout: 5s
type Config struct {
	Mode           string     `yaml:"mode,omitempty" json:"mode,omitempty"`
	QueueBound     int        `yaml:"queue-bound,omitempty" json:"queue-bound,omitempty"`
	WorkerCeiling  int        `yaml:"worker-ceiling,omitempty" json:"worker-ceiling,omitempty"`
	InitialWorkers int        `yaml:"initial-workers,omitempty" json:"initial-workers,omitempty"`
	IdleTimeout    Duration   `yaml:"idle-timeout,omitempty" json:"idle-timeout,omitempty"`
	RateLimit      *RateLimit `yaml:"rate-limit,omitempty" json:"rate-limit,omitempty"`
}

// RateLimit throttles task execution across the pool's workers.
type RateLimit struct {
	TasksPerSecond float64 `yaml:"tasks-per-second" json:"tasks-per-second"`
	Burst          int     `yaml:"burst" json:"burst"`
}

// Duration wraps time.Duration so YAML strings like "2s" decode.
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

// New reads, validates and defaults a pool configuration file.
func New(file string) (*Config, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	c := new(Config)
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	err = c.validateSetDefaults()
	return c, err
}

func (c *Config) validateSetDefaults() error {
	switch c.Mode {
	case "", "fixed":
		c.Mode = "fixed"
	case "cached":
	default:
		return fmt.Errorf("unknown pool mode %q", c.Mode)
	}
	if c.QueueBound < 0 {
		return fmt.Errorf("queue-bound must not be negative, got %d", c.QueueBound)
	}
	if c.QueueBound == 0 {
		c.QueueBound = pool.DefaultQueueBound
	}
	if c.WorkerCeiling < 0 {
		return fmt.Errorf("worker-ceiling must not be negative, got %d", c.WorkerCeiling)
	}
	if c.WorkerCeiling == 0 {
		c.WorkerCeiling = pool.DefaultWorkerCeiling
	}
	if c.InitialWorkers < 0 {
		return fmt.Errorf("initial-workers must not be negative, got %d", c.InitialWorkers)
	}
	if c.IdleTimeout.Duration <= 0 {
		c.IdleTimeout.Duration = pool.DefaultIdleTimeout
	}
	if c.RateLimit != nil {
		if c.RateLimit.TasksPerSecond <= 0 {
			return fmt.Errorf("rate-limit tasks-per-second must be positive, got %v", c.RateLimit.TasksPerSecond)
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate-limit burst must be positive, got %d", c.RateLimit.Burst)
		}
	}
	return nil
}

// Options converts the configuration into pool options. InitialWorkers
// is not an option; pass it to Start.
func (c *Config) Options() []pool.Option {
	opts := []pool.Option{
		pool.WithQueueBound(c.QueueBound),
		pool.WithWorkerCeiling(c.WorkerCeiling),
		pool.WithIdleTimeout(c.IdleTimeout.Duration),
	}
	if c.Mode == "cached" {
		opts = append(opts, pool.WithMode(pool.ModeCached))
	}
	if c.RateLimit != nil {
		opts = append(opts, pool.WithRateLimit(c.RateLimit.TasksPerSecond, c.RateLimit.Burst))
	}
	return opts
}
