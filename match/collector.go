package match

import "sort"

// Collector keeps the k highest-scoring candidates without sorting the full
// corpus. Each Add costs O(log k) for the position plus the slice shift;
// the total over n candidates is O(n log k), which matters when the indexed
// file count vastly exceeds the visible result count.
type Collector struct {
	k     int
	items []Candidate
}

// NewCollector creates a collector bounded to k results. k <= 0 means
// unbounded.
func NewCollector(k int) *Collector {
	capHint := k
	if capHint <= 0 || capHint > 64 {
		capHint = 64
	}
	return &Collector{k: k, items: make([]Candidate, 0, capHint)}
}

// Add inserts the candidate at its binary-search position in the descending
// score order. Once at capacity, the lowest-scoring element is evicted.
func (c *Collector) Add(cand Candidate) {
	// First index with a strictly lower score; equal scores stay in
	// insertion order.
	pos := sort.Search(len(c.items), func(i int) bool {
		return c.items[i].Score < cand.Score
	})

	c.items = append(c.items, Candidate{})
	copy(c.items[pos+1:], c.items[pos:])
	c.items[pos] = cand

	if c.k > 0 && len(c.items) > c.k {
		c.items = c.items[:c.k]
	}
}

// Len returns the current number of held candidates.
func (c *Collector) Len() int { return len(c.items) }

// Results returns the held candidates in descending score order.
func (c *Collector) Results() []Candidate {
	out := make([]Candidate, len(c.items))
	copy(out, c.items)
	return out
}
