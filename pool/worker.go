package pool

import "sync/atomic"

// workerIDGen hands out pool-assigned worker identifiers. Identifiers
// are monotonically increasing and never reused, so a retired worker's
// registry slot cannot be confused with a later spawn's.
var workerIDGen atomic.Uint64

// worker is one dispatch-loop goroutine. The pool reclaims workers
// through its exit condition rather than joining them; the record only
// carries the identity needed for registry bookkeeping and
// self-removal.
type worker struct {
	id   uint64
	loop func(id uint64)
}

func newWorker(loop func(uint64)) *worker {
	return &worker{
		id:   workerIDGen.Add(1),
		loop: loop,
	}
}

// start launches the dispatch loop.
func (w *worker) start() {
	go w.loop(w.id)
}
