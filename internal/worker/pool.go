// Package worker spreads independent chess evaluations, such as per-piece
// legality checks or perft subtrees, over a fixed number of goroutines.
package worker

import (
	"sync"
	"sync/atomic"
)

// WorkItem is one unit of work and its position in the input.
type WorkItem[T any] struct {
	Value T
	Index int
}

// ProcessResult is the outcome of one WorkItem.
type ProcessResult[R any] struct {
	Value R
	Index int
}

// ProcessFunc evaluates a single work item.
type ProcessFunc[T, R any] func(item WorkItem[T]) ProcessResult[R]

// Pool runs a ProcessFunc on a fixed set of goroutines. Results arrive in
// completion order; WorkItem.Index recovers the input order.
type Pool[T, R any] struct {
	numWorkers  int
	workChan    chan WorkItem[T]
	resultChan  chan ProcessResult[R]
	processFunc ProcessFunc[T, R]
	wg          sync.WaitGroup
	stopped     atomic.Bool
}

type poolConfig struct {
	numWorkers int
	bufferSize int
}

// PoolOption configures Map and Any.
type PoolOption func(*poolConfig)

// WithWorkers sets the number of worker goroutines. Values below 1 are
// ignored.
func WithWorkers(n int) PoolOption {
	return func(c *poolConfig) {
		if n >= 1 {
			c.numWorkers = n
		}
	}
}

// WithBufferSize sets the work and result channel capacity.
func WithBufferSize(size int) PoolOption {
	return func(c *poolConfig) {
		if size >= 1 {
			c.bufferSize = size
		}
	}
}

// NewPool creates a pool with numWorkers goroutines and channels of
// bufferSize. Both are raised to at least 1.
func NewPool[T, R any](numWorkers, bufferSize int, processFunc ProcessFunc[T, R]) *Pool[T, R] {
	numWorkers = max(numWorkers, 1)
	bufferSize = max(bufferSize, 1)
	return &Pool[T, R]{
		numWorkers:  numWorkers,
		workChan:    make(chan WorkItem[T], bufferSize),
		resultChan:  make(chan ProcessResult[R], bufferSize),
		processFunc: processFunc,
	}
}

// Start launches the worker goroutines.
func (p *Pool[T, R]) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[T, R]) worker() {
	defer p.wg.Done()
	for item := range p.workChan {
		if p.stopped.Load() {
			continue // drain without evaluating
		}
		p.resultChan <- p.processFunc(item)
	}
}

// Submit queues an item, blocking while the work channel is full.
func (p *Pool[T, R]) Submit(item WorkItem[T]) {
	p.workChan <- item
}

// Stop makes workers skip every item not yet started. Items in flight
// still produce a result.
func (p *Pool[T, R]) Stop() {
	p.stopped.Store(true)
}

// IsStopped reports whether Stop has been called.
func (p *Pool[T, R]) IsStopped() bool {
	return p.stopped.Load()
}

// Close closes the work channel, waits for the workers and then closes the
// result channel.
func (p *Pool[T, R]) Close() {
	close(p.workChan)
	p.wg.Wait()
	close(p.resultChan)
}

// Results returns the channel results are delivered on.
func (p *Pool[T, R]) Results() <-chan ProcessResult[R] {
	return p.resultChan
}

func newConfig(n int, opts []PoolOption) poolConfig {
	cfg := poolConfig{numWorkers: 1, bufferSize: n}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// run starts a pool over items, feeds it from a separate goroutine and
// returns the pool for the caller to drain.
func run[T, R any](items []T, fn func(T) R, cfg poolConfig) *Pool[T, R] {
	pool := NewPool(cfg.numWorkers, cfg.bufferSize, func(item WorkItem[T]) ProcessResult[R] {
		return ProcessResult[R]{Value: fn(item.Value), Index: item.Index}
	})
	pool.Start()
	go func() {
		for i, item := range items {
			pool.Submit(WorkItem[T]{Value: item, Index: i})
		}
		pool.Close()
	}()
	return pool
}

// Map applies fn to every item and returns the results in input order.
// With a single worker it runs inline.
func Map[T, R any](items []T, fn func(T) R, opts ...PoolOption) []R {
	out := make([]R, len(items))
	cfg := newConfig(len(items), opts)
	if cfg.numWorkers <= 1 || len(items) <= 1 {
		for i, item := range items {
			out[i] = fn(item)
		}
		return out
	}

	for res := range run(items, fn, cfg).Results() {
		out[res.Index] = res.Value
	}
	return out
}

// Any reports whether pred holds for some item. Once one item satisfies
// pred the pool is stopped, so items not yet started are never evaluated.
func Any[T any](items []T, pred func(T) bool, opts ...PoolOption) bool {
	cfg := newConfig(len(items), opts)
	if cfg.numWorkers <= 1 || len(items) <= 1 {
		for _, item := range items {
			if pred(item) {
				return true
			}
		}
		return false
	}

	pool := run(items, pred, cfg)
	found := false
	for res := range pool.Results() {
		if res.Value && !found {
			found = true
			pool.Stop()
		}
	}
	return found
}
