package pool

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// ErrQueueFull is returned by Process when one of the batch's
// submissions was rejected on a full queue.
var ErrQueueFull = errors.New("task queue is full, submission rejected")

// Process submits every task to the running pool and gathers the
// produced values in input order. It is a convenience wrapper for batch
// workloads on top of the future-based Submit API.
//
// A rejected submission aborts the batch with ErrQueueFull; a cancelled
// context aborts the gather with the context's error. In both cases
// tasks already accepted keep executing in the background and their
// values are discarded.
func (p *Pool) Process(ctx context.Context, tasks []Task) ([]Value, error) {
	if len(tasks) == 0 {
		return []Value{}, nil
	}

	results := make([]Value, len(tasks))
	g, ctx := errgroup.WithContext(ctx)

	for i, task := range tasks {
		res := p.Submit(task)
		if !res.Valid() {
			return nil, ErrQueueFull
		}

		g.Go(func() error {
			done := make(chan Value, 1)
			go func() {
				done <- res.Get()
			}()

			select {
			case v := <-done:
				results[i] = v
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
