// Package worker provides a small bounded goroutine pool for off-main-thread
// mesh building and tile rebaking.
//
// The pool is an owned object with an explicit lifecycle: the canvas creates
// it, injects it where needed, and closes it on shutdown. There are no
// package-level singletons. Submitted tasks must only read immutable
// snapshots and write to buffers they own.
package worker

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool runs submitted tasks on a fixed set of worker goroutines.
// All methods are safe for concurrent use.
type Pool struct {
	workers int
	tasks   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), workers*4),
		done:    make(chan struct{}),
	}
	p.running.Store(true)
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			// Drain queued tasks before exiting so Close never drops work.
			for {
				select {
				case task := <-p.tasks:
					task()
				default:
					return
				}
			}
		case task := <-p.tasks:
			task()
		}
	}
}

// Submit queues a single task. Returns false if the pool is closed or the
// queue is full; the caller should then run the task synchronously.
func (p *Pool) Submit(task func()) bool {
	if task == nil || !p.running.Load() {
		return false
	}
	select {
	case p.tasks <- task:
		return true
	default:
		return false
	}
}

// ExecuteAll runs every task on the pool and waits for all of them.
// Tasks that cannot be queued run on the calling goroutine.
func (p *Pool) ExecuteAll(tasks []func()) {
	if len(tasks) == 0 {
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for _, task := range tasks {
		t := task
		wrapped := func() {
			defer wg.Done()
			t()
		}
		if !p.Submit(wrapped) {
			wrapped()
		}
	}
	wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// IsRunning reports whether the pool still accepts work.
func (p *Pool) IsRunning() bool { return p.running.Load() }

// Close stops accepting work, finishes queued tasks, and joins the workers.
// Safe to call more than once.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}
