package hashing

import "sync"

// ThreadSafeCounter wraps Counter with mutex protection for concurrent access.
type ThreadSafeCounter struct {
	counter *Counter
	mu      sync.RWMutex
}

// NewThreadSafeCounter creates an empty thread-safe counter.
func NewThreadSafeCounter() *ThreadSafeCounter {
	return &ThreadSafeCounter{counter: NewCounter()}
}

// Add atomically records one occurrence of key and returns its new count.
func (c *ThreadSafeCounter) Add(key uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counter.Add(key)
}

// Count returns how many times key has been added.
func (c *ThreadSafeCounter) Count(key uint64) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counter.Count(key)
}

// Distinct returns the number of different keys seen.
func (c *ThreadSafeCounter) Distinct() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counter.Distinct()
}

// Total returns the number of keys added, repeats included.
func (c *ThreadSafeCounter) Total() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counter.Total()
}

// Merge adds every occurrence recorded in other. other must not be written
// while Merge runs.
func (c *ThreadSafeCounter) Merge(other *Counter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, n := range other.counts {
		c.counter.counts[key] += n
		c.counter.total += n
	}
}
