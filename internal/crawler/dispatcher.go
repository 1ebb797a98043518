package crawler

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Dispatcher drives workers against the frontier. It owns the
// concurrency limiter (at most maxTasks fetches outstanding at once)
// and the in-flight counter used for termination detection: the crawl
// is over exactly when the queue is empty and no fetch is in flight.
type Dispatcher struct {
	frontier *Frontier
	slots    *semaphore.Weighted

	mu       sync.Mutex
	cond     *sync.Cond
	inFlight int
	done     bool
}

// NewDispatcher creates a dispatcher over the given frontier with a
// maxTasks-wide concurrency gate.
func NewDispatcher(frontier *Frontier, maxTasks int) *Dispatcher {
	d := &Dispatcher{
		frontier: frontier,
		slots:    semaphore.NewWeighted(int64(maxTasks)),
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Next hands the caller the next URL to process, blocking while the
// queue is momentarily empty but other fetches are still in flight
// (they may yet enqueue new work). It returns false once the crawl has
// terminated or ctx is cancelled. The caller must pair every true
// return with a later Complete call.
func (d *Dispatcher) Next(ctx context.Context) (string, bool) {
	// Wake waiters when the context goes away so they can observe it.
	stop := context.AfterFunc(ctx, func() {
		d.mu.Lock()
		d.cond.Broadcast()
		d.mu.Unlock()
	})
	defer stop()

	d.mu.Lock()
	defer d.mu.Unlock()

	for {
		if d.done || ctx.Err() != nil {
			return "", false
		}
		if u, ok := d.frontier.Take(); ok {
			d.inFlight++
			return u, true
		}
		if d.inFlight == 0 {
			d.done = true
			d.cond.Broadcast()
			return "", false
		}
		d.cond.Wait()
	}
}

// Admit offers a discovered URL to the frontier and wakes an idle
// worker when it is accepted.
func (d *Dispatcher) Admit(rawURL string) Admission {
	a := d.frontier.TryAdmit(rawURL)
	if a == AdmissionAccepted {
		d.mu.Lock()
		d.cond.Signal()
		d.mu.Unlock()
	}
	return a
}

// Complete reports that a URL handed out by Next has finished its
// fetch attempt, success or failure. The in-flight decrement is
// unconditional; when it reaches zero with an empty queue the crawl
// has terminated and all waiters are released.
func (d *Dispatcher) Complete() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.inFlight--
	if d.inFlight == 0 && d.frontier.QueueLen() == 0 {
		d.done = true
		d.cond.Broadcast()
	}
}

// AcquireSlot blocks until one of the maxTasks concurrency slots is
// free. Workers block here rather than spinning.
func (d *Dispatcher) AcquireSlot(ctx context.Context) error {
	return d.slots.Acquire(ctx, 1)
}

// ReleaseSlot returns a concurrency slot. Callers release via defer so
// a failed fetch can never leak a slot.
func (d *Dispatcher) ReleaseSlot() {
	d.slots.Release(1)
}

// InFlight returns the number of URLs currently being processed.
func (d *Dispatcher) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight
}

// Done reports whether the crawl has terminated.
func (d *Dispatcher) Done() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}
