package relevance

import (
	"sync"

	"github.com/zero-day-ai/goap/state"
	"github.com/zero-day-ai/goap/step"
)

// Cache stores relevance results keyed by full goal fingerprint, so
// goals that differ only in a threshold never share an entry. Entries
// are written once and read by any number of concurrent searches;
// agents planning toward the same goal share one analysis.
//
// The cache assumes the catalog is stable. Rebuilding the catalog
// requires discarding the cache at a point where no searches are in
// flight.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Result
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Result)}
}

// GetOrCompute returns the cached result for the goal, computing and
// storing it on first use. Failed analyses are not cached; an
// unreachable goal is re-analyzed on the next attempt, which keeps a
// catalog fix effective without a cache flush.
func (c *Cache) GetOrCompute(goal *state.Goal, catalog *step.Catalog, analyzer *Analyzer) (*Result, error) {
	key := goal.Fingerprint()

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have analyzed the same goal while we
	// waited for the write lock.
	if cached, ok := c.entries[key]; ok {
		return cached, nil
	}

	result, err := analyzer.Analyze(goal, catalog)
	if err != nil {
		return nil, err
	}
	c.entries[key] = result
	return result, nil
}

// Len returns the number of cached goals.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset discards all entries. Call only while no searches are in
// flight, typically right after a catalog rebuild.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Result)
}
