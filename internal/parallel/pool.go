// Package parallel provides the job system the HUD kernels run on: a
// work-stealing worker pool and task handles that express dependencies
// between kernel passes.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines executing kernel work items.
//
// Each worker owns a buffered queue. A worker whose queue is empty steals
// from the other queues before blocking, which keeps the pool busy when
// some chunks are slower than others (long text items next to sprites).
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	workQueues []chan func()

	// mu orders enqueue against Close so no item lands in a queue after
	// the workers drained it.
	mu      sync.RWMutex
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.workQueues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			run(work)
			continue
		default:
		}

		if stolen := p.steal(id); stolen != nil {
			run(stolen)
			continue
		}

		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			run(work)
		}
	}
}

func run(work func()) {
	if work != nil {
		work()
	}
}

// drain executes whatever is left in queue after shutdown was signalled.
func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			run(work)
		default:
			return
		}
	}
}

// steal takes one work item from another worker's queue, or returns nil.
func (p *WorkerPool) steal(self int) func() {
	for i := 1; i < p.workers; i++ {
		victim := (self + i) % p.workers
		select {
		case work := <-p.workQueues[victim]:
			return work
		default:
		}
	}
	return nil
}

// enqueue places fn on the given worker's queue. It returns false when the
// pool shut down before the item could be queued.
func (p *WorkerPool) enqueue(worker int, fn func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running.Load() {
		return false
	}
	p.workQueues[worker] <- fn
	return true
}

// ExecuteAll distributes work round-robin across the workers and waits for
// every item to finish. Items that cannot be queued because the pool is
// closed run on the calling goroutine, so ExecuteAll always completes the
// whole batch.
//
// ExecuteAll must not be called from a worker: a full queue would block
// the worker that is supposed to drain it.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for i, fn := range work {
		wrapped := func() {
			defer wg.Done()
			run(fn)
		}
		if !p.enqueue(i%p.workers, wrapped) {
			wrapped()
		}
	}
	wg.Wait()
}

// Submit queues a single work item on the worker with the shortest queue.
// If the pool is closed, fn runs on the calling goroutine.
func (p *WorkerPool) Submit(fn func()) {
	if fn == nil {
		return
	}

	shortest := 0
	for i := 1; i < p.workers; i++ {
		if len(p.workQueues[i]) < len(p.workQueues[shortest]) {
			shortest = i
		}
	}
	if !p.enqueue(shortest, fn) {
		fn()
	}
}

// Close stops accepting work, lets the workers drain their queues and
// waits for them to exit. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// QueuedWork returns an approximate count of queued work items.
func (p *WorkerPool) QueuedWork() int {
	total := 0
	for _, q := range p.workQueues {
		total += len(q)
	}
	return total
}
