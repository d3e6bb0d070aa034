// Package cache holds the resource caches the director purges on
// teardown.
package cache

const defaultMaxSize = 32

// Store is an LRU cache. Entries can be retained; PurgeUnused drops only
// entries nobody retains. destroy is called for every entry leaving the
// store.
type Store[V comparable] struct {
	items   map[string]V
	refs    map[string]int
	order   []string // tracks insertion order for LRU eviction
	maxSize int
	destroy func(V)
}

// NewStore creates a store holding at most maxSize entries. A nil destroy
// is allowed.
func NewStore[V comparable](maxSize int, destroy func(V)) *Store[V] {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	return &Store[V]{
		items:   make(map[string]V),
		refs:    make(map[string]int),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		destroy: destroy,
	}
}

// Get returns the entry for key and marks it most recently used.
func (c *Store[V]) Get(key string) (V, bool) {
	v, exists := c.items[key]
	if exists {
		// Move to end (most recently used)
		c.moveToEnd(key)
	}
	return v, exists
}

// Set stores v under key. A different value already stored under key is
// destroyed; storing the same value again only refreshes its recency.
func (c *Store[V]) Set(key string, v V) {
	// If key already exists, replace and move to end
	if old, exists := c.items[key]; exists {
		if old != v {
			c.release(old)
			c.items[key] = v
		}
		c.moveToEnd(key)
		return
	}

	// Evict oldest if at capacity
	if len(c.order) >= c.maxSize {
		c.evictOldest()
	}

	c.items[key] = v
	c.order = append(c.order, key)
}

// Retain marks key as in use. It returns false for unknown keys.
func (c *Store[V]) Retain(key string) bool {
	if _, exists := c.items[key]; !exists {
		return false
	}
	c.refs[key]++
	return true
}

// Release undoes one Retain.
func (c *Store[V]) Release(key string) {
	if c.refs[key] <= 1 {
		delete(c.refs, key)
		return
	}
	c.refs[key]--
}

// Remove drops key regardless of retains.
func (c *Store[V]) Remove(key string) {
	v, exists := c.items[key]
	if !exists {
		return
	}
	c.drop(key, v)
}

// PurgeUnused drops every entry that is not retained and returns how many
// were dropped.
func (c *Store[V]) PurgeUnused() int {
	purged := 0
	for _, key := range append([]string(nil), c.order...) {
		if c.refs[key] > 0 {
			continue
		}
		c.drop(key, c.items[key])
		purged++
	}
	return purged
}

// Destroy drops every entry.
func (c *Store[V]) Destroy() {
	for _, key := range c.order {
		c.release(c.items[key])
	}
	c.items = make(map[string]V)
	c.refs = make(map[string]int)
	c.order = c.order[:0]
}

// Len returns the number of entries.
func (c *Store[V]) Len() int {
	return len(c.order)
}

func (c *Store[V]) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}

// evictOldest skips retained entries; when all are retained the store
// grows past maxSize.
func (c *Store[V]) evictOldest() {
	for _, key := range c.order {
		if c.refs[key] > 0 {
			continue
		}
		c.drop(key, c.items[key])
		return
	}
}

func (c *Store[V]) drop(key string, v V) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	delete(c.items, key)
	delete(c.refs, key)
	c.release(v)
}

func (c *Store[V]) release(v V) {
	if c.destroy != nil {
		c.destroy(v)
	}
}
