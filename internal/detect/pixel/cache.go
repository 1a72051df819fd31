package pixel

import (
	"sync"

	"github.com/verilens/verilens/internal/domain/analysis"
)

type cacheEntry struct {
	sum uint64
	res analysis.ScoreResult
}

// resultCache is a bounded verdict cache keyed by perceptual hash. Each
// entry carries an exact content checksum so a perceptual collision
// between distinct images reads as a miss instead of serving the other
// image's verdict. Eviction is oldest-first in insertion order; the cache
// is advisory, losing an entry only costs a rescore.
type resultCache struct {
	mu       sync.Mutex
	capacity int
	order    []uint64
	entries  map[uint64]cacheEntry
}

func newResultCache(capacity int) *resultCache {
	if capacity <= 0 {
		capacity = 128
	}
	return &resultCache{
		capacity: capacity,
		entries:  make(map[uint64]cacheEntry, capacity),
	}
}

func (c *resultCache) get(key, sum uint64) (analysis.ScoreResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.sum != sum {
		return analysis.ScoreResult{}, false
	}
	return e.res, true
}

func (c *resultCache) put(key, sum uint64, res analysis.ScoreResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		// Perceptual collision with different content: newest wins.
		c.entries[key] = cacheEntry{sum: sum, res: res}
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.order = append(c.order, key)
	c.entries[key] = cacheEntry{sum: sum, res: res}
}
