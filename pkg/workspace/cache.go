package workspace

import (
	"sort"
	"strings"
	"sync"
)

// Cache memoises the outcome of marker lookups per directory.
// A false value records that the directory holds none of the markers.
type Cache struct {
	mu    sync.RWMutex
	items map[string]bool
}

func NewCache() *Cache {
	return &Cache{
		items: make(map[string]bool),
	}
}

func (c *Cache) Get(dir string, markers []string) (found, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	found, ok = c.items[makeCacheKey(dir, markers)]
	return found, ok
}

func (c *Cache) Set(dir string, markers []string, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[makeCacheKey(dir, markers)] = found
}

// Size returns the number of directories looked up so far.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func makeCacheKey(dir string, markers []string) string {
	sorted := make([]string, len(markers))
	copy(sorted, markers)
	sort.Strings(sorted)
	return dir + "|" + strings.Join(sorted, "|")
}
