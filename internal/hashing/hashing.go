package hashing

// Counter tracks how many times each position key has been seen.
type Counter struct {
	// counts maps a position key to its number of occurrences
	counts map[uint64]int
	// total is the number of Add calls since the last Reset
	total int
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[uint64]int)}
}

// Add records one occurrence of key and returns the new count for it.
func (c *Counter) Add(key uint64) int {
	c.counts[key]++
	c.total++
	return c.counts[key]
}

// Count returns how many times key has been added.
func (c *Counter) Count(key uint64) int {
	return c.counts[key]
}

// Distinct returns the number of different keys seen.
func (c *Counter) Distinct() int {
	return len(c.counts)
}

// Total returns the number of keys added, repeats included.
func (c *Counter) Total() int {
	return c.total
}

// Repeats returns the number of additions that were not the first for
// their key.
func (c *Counter) Repeats() int {
	return c.total - len(c.counts)
}

// Reset clears the counter.
func (c *Counter) Reset() {
	c.counts = make(map[uint64]int)
	c.total = 0
}

// Clone returns an independent copy of the counter.
func (c *Counter) Clone() *Counter {
	out := &Counter{counts: make(map[uint64]int, len(c.counts)), total: c.total}
	for k, v := range c.counts {
		out.counts[k] = v
	}
	return out
}
