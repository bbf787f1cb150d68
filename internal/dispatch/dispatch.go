// Package dispatch runs units of work on background worker pools and
// funnels observable-state mutations back through a single apply loop.
// One goroutine owns every publish to mirrored state, so mirror mutations
// need no locking discipline from callers: background work computes, then
// hands the result to the apply loop.
package dispatch

import (
	"sync"

	"github.com/vitrinewallet/vitrine/internal/config"
	vitrerr "github.com/vitrinewallet/vitrine/pkg/errors"
)

// Priority selects the worker pool a unit of work runs on.
type Priority int

// Priority classes, highest first. Refresh cycles triggered by the user run
// at PriorityUserInteractive for responsiveness.
const (
	PriorityUserInteractive Priority = iota
	PriorityUtility
	PriorityBackground

	numPriorities = 3
)

// String returns the priority name.
func (p Priority) String() string {
	switch p {
	case PriorityUserInteractive:
		return "user-interactive"
	case PriorityUtility:
		return "utility"
	case PriorityBackground:
		return "background"
	default:
		return "unknown"
	}
}

// queueDepth is the per-pool submission buffer. Submitters block once a
// pool is this far behind.
const queueDepth = 64

// defaultWorkers is the worker count per priority class.
//
//nolint:gochecknoglobals // Static pool sizing
var defaultWorkers = [numPriorities]int{
	PriorityUserInteractive: 4,
	PriorityUtility:         2,
	PriorityBackground:      1,
}

// Dispatcher owns the worker pools and the apply loop.
type Dispatcher struct {
	logger *config.Logger

	queues [numPriorities]chan func()
	applyQ chan func()

	closed      chan struct{} // no new Go submissions
	applyClosed chan struct{} // no new Apply submissions

	workerWG  sync.WaitGroup
	applyWG   sync.WaitGroup
	closeOnce sync.Once
}

// New creates a dispatcher with the default pool sizes and starts its
// workers and apply loop.
func New(logger *config.Logger) *Dispatcher {
	if logger == nil {
		logger = config.NullLogger()
	}

	d := &Dispatcher{
		logger:      logger,
		applyQ:      make(chan func(), queueDepth),
		closed:      make(chan struct{}),
		applyClosed: make(chan struct{}),
	}

	for p := 0; p < numPriorities; p++ {
		d.queues[p] = make(chan func(), queueDepth)
		for i := 0; i < defaultWorkers[p]; i++ {
			d.workerWG.Add(1)
			go d.worker(d.queues[p])
		}
	}

	d.applyWG.Add(1)
	go d.applyLoop()

	return d
}

// Go submits work to the pool for the given priority. It blocks while the
// pool's queue is full and returns ErrDispatcherClosed after Close.
func (d *Dispatcher) Go(p Priority, work func()) error {
	if p < 0 || p >= numPriorities {
		p = PriorityBackground
	}

	select {
	case <-d.closed:
		return vitrerr.ErrDispatcherClosed
	default:
	}

	select {
	case d.queues[p] <- work:
		return nil
	case <-d.closed:
		return vitrerr.ErrDispatcherClosed
	}
}

// Apply posts a state mutation to the apply loop without waiting for it.
func (d *Dispatcher) Apply(fn func()) error {
	select {
	case <-d.applyClosed:
		return vitrerr.ErrDispatcherClosed
	default:
	}

	select {
	case d.applyQ <- fn:
		return nil
	case <-d.applyClosed:
		return vitrerr.ErrDispatcherClosed
	}
}

// ApplyWait posts a state mutation to the apply loop and waits until it has
// run. It must not be called from the apply loop itself.
func (d *Dispatcher) ApplyWait(fn func()) error {
	done := make(chan struct{})
	err := d.Apply(func() {
		defer close(done)
		fn()
	})
	if err != nil {
		return err
	}
	<-done
	return nil
}

// Close stops accepting work, drains both the worker queues and the apply
// queue, and waits for everything in flight to finish. Work still running
// at close time may keep posting to the apply loop until it returns.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.closed)
		d.workerWG.Wait()
		close(d.applyClosed)
		d.applyWG.Wait()
	})
}

// worker consumes one priority queue until closed, then drains it.
func (d *Dispatcher) worker(queue chan func()) {
	defer d.workerWG.Done()

	for {
		select {
		case work := <-queue:
			d.run(work)
		case <-d.closed:
			for {
				select {
				case work := <-queue:
					d.run(work)
				default:
					return
				}
			}
		}
	}
}

// applyLoop is the single goroutine that owns observable-state mutation.
func (d *Dispatcher) applyLoop() {
	defer d.applyWG.Done()

	for {
		select {
		case fn := <-d.applyQ:
			d.run(fn)
		case <-d.applyClosed:
			for {
				select {
				case fn := <-d.applyQ:
					d.run(fn)
				default:
					return
				}
			}
		}
	}
}

// run executes a unit of work, containing panics so a fault in one task
// cannot take down the pool or a concurrent task.
func (d *Dispatcher) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatch: recovered panic: %v", r)
		}
	}()
	fn()
}
