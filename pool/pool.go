// ABOUTME: Worker pool for running independent jobs in parallel
// ABOUTME: Map fans a slice out over the workers and returns results in input order

package pool

import (
	"runtime"
	"sync"
)

// Pool runs submitted tasks on a fixed set of goroutines
type Pool struct {
	workers int
	tasks   chan func()
	running sync.WaitGroup // worker goroutines
	pending sync.WaitGroup // submitted tasks not yet finished
}

// New starts a pool with the given number of workers.
// workers < 1 starts one worker per CPU.
func New(workers int) *Pool {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), workers),
	}

	for range workers {
		p.running.Add(1)

		go p.work()
	}

	return p
}

func (p *Pool) work() {
	defer p.running.Done()

	for task := range p.tasks {
		task()
		p.pending.Done()
	}
}

// Submit queues a task, blocking while every worker is busy and the queue is full
func (p *Pool) Submit(task func()) {
	p.pending.Add(1)
	p.tasks <- task
}

// Wait blocks until all submitted tasks have completed
func (p *Pool) Wait() {
	p.pending.Wait()
}

// Workers returns the number of worker goroutines
func (p *Pool) Workers() int {
	return p.workers
}

// Close stops the workers once queued tasks are done. The pool can't be reused.
func (p *Pool) Close() {
	close(p.tasks)
	p.running.Wait()
}

// Map calls fn on every item using p and waits for all calls.
// results[i] and errs[i] belong to items[i].
func Map[T, R any](p *Pool, items []T, fn func(T) (R, error)) ([]R, []error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))

	for i, item := range items {
		p.Submit(func() {
			results[i], errs[i] = fn(item)
		})
	}

	p.Wait()

	return results, errs
}
