package staging

import (
	"sync"

	"github.com/varoOP/mangacat/internal/domain"
)

// Cache holds the results of the most recent search, keyed by MAL ID, so a
// later add can resolve the full record without asking the provider again.
//
// It keeps exactly one generation: Replace drops everything from the
// previous search. The mutex keeps the map consistent under concurrent
// requests, but two interleaved search/add cycles still see last-search-wins
// behaviour.
type Cache struct {
	mu    sync.RWMutex
	items map[int64]domain.SearchResult
}

func New() *Cache {
	return &Cache{items: make(map[int64]domain.SearchResult)}
}

// Replace clears the cache and stores results. A later duplicate id wins.
func (c *Cache) Replace(results []domain.SearchResult) {
	items := make(map[int64]domain.SearchResult, len(results))
	for _, r := range results {
		items[r.MalID] = r
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

// Get returns the staged result for malID
func (c *Cache) Get(malID int64) (domain.SearchResult, bool) {
	c.mu.RLock()
	r, ok := c.items[malID]
	c.mu.RUnlock()
	return r, ok
}

// Len returns the number of staged results
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
