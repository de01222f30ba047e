package compose

import (
	"container/list"
	"sync"
	"time"
)

// DefaultDimCacheSize caps the page-dimension cache. Reading a page box is
// cheap; the cache only avoids re-parsing the same base document on every
// render within a process lifetime.
const DefaultDimCacheSize = 10

// PageDim is a page box size in points.
type PageDim struct {
	Width  float64
	Height float64
}

// DimKey identifies a base document revision.
type DimKey struct {
	ID      string
	ModTime time.Time
}

type dimEntry struct {
	key DimKey
	dim PageDim
}

// DimCache is a small LRU cache of base-document page dimensions. It is safe
// for concurrent use; a miss is always transparent to the caller because
// Load re-reads through the supplied loader.
type DimCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	index    map[DimKey]*list.Element
}

// NewDimCache constructs a cache. A non-positive capacity selects the
// default.
func NewDimCache(capacity int) *DimCache {
	if capacity <= 0 {
		capacity = DefaultDimCacheSize
	}
	return &DimCache{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[DimKey]*list.Element, capacity),
	}
}

// Get returns a cached dimension and marks it most recently used.
func (c *DimCache) Get(key DimKey) (PageDim, bool) {
	if c == nil {
		return PageDim{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.index[key]
	if !ok {
		return PageDim{}, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(dimEntry).dim, true
}

// Put stores a dimension, evicting the oldest entry at capacity.
func (c *DimCache) Put(key DimKey, dim PageDim) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.index[key]; ok {
		elem.Value = dimEntry{key: key, dim: dim}
		c.order.MoveToFront(elem)
		return
	}
	c.index[key] = c.order.PushFront(dimEntry{key: key, dim: dim})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.index, oldest.Value.(dimEntry).key)
	}
}

// Load returns the cached dimension for key or reads it through load and
// caches the result. Loader errors are returned as-is and cache nothing.
func (c *DimCache) Load(key DimKey, load func() (PageDim, error)) (PageDim, error) {
	if dim, ok := c.Get(key); ok {
		return dim, nil
	}
	dim, err := load()
	if err != nil {
		return PageDim{}, err
	}
	c.Put(key, dim)
	return dim, nil
}

// Len reports the number of cached entries.
func (c *DimCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
