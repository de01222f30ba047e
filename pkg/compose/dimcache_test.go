package compose

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(id string) DimKey {
	return DimKey{ID: id, ModTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestDimCache_PutGet(t *testing.T) {
	cache := NewDimCache(2)
	cache.Put(key("a"), PageDim{Width: 595.28, Height: 841.89})

	dim, ok := cache.Get(key("a"))
	require.True(t, ok)
	assert.Equal(t, PageDim{Width: 595.28, Height: 841.89}, dim)

	_, ok = cache.Get(key("b"))
	assert.False(t, ok)
}

func TestDimCache_ModTimeInvalidates(t *testing.T) {
	cache := NewDimCache(2)
	cache.Put(key("a"), PageDim{Width: 500, Height: 700})

	stale := key("a")
	stale.ModTime = stale.ModTime.Add(time.Minute)
	_, ok := cache.Get(stale)
	assert.False(t, ok, "a changed mod time must miss")
}

func TestDimCache_EvictsOldest(t *testing.T) {
	cache := NewDimCache(2)
	cache.Put(key("a"), PageDim{Width: 1})
	cache.Put(key("b"), PageDim{Width: 2})

	// Touch a so b becomes the eviction candidate.
	_, ok := cache.Get(key("a"))
	require.True(t, ok)

	cache.Put(key("c"), PageDim{Width: 3})
	assert.Equal(t, 2, cache.Len())

	_, ok = cache.Get(key("b"))
	assert.False(t, ok, "least recently used entry must be evicted")
	_, ok = cache.Get(key("a"))
	assert.True(t, ok)
	_, ok = cache.Get(key("c"))
	assert.True(t, ok)
}

func TestDimCache_DefaultCapacity(t *testing.T) {
	cache := NewDimCache(0)
	for i := 0; i < DefaultDimCacheSize+5; i++ {
		cache.Put(key(fmt.Sprintf("doc-%d", i)), PageDim{Width: float64(i)})
	}
	assert.Equal(t, DefaultDimCacheSize, cache.Len())
}

func TestDimCache_Load(t *testing.T) {
	cache := NewDimCache(2)
	calls := 0
	loader := func() (PageDim, error) {
		calls++
		return PageDim{Width: 595.28, Height: 841.89}, nil
	}

	dim, err := cache.Load(key("a"), loader)
	require.NoError(t, err)
	assert.Equal(t, 841.89, dim.Height)

	_, err = cache.Load(key("a"), loader)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second load must be served from cache")
}

func TestDimCache_LoadErrorCachesNothing(t *testing.T) {
	cache := NewDimCache(2)
	boom := errors.New("unreadable")
	_, err := cache.Load(key("a"), func() (PageDim, error) { return PageDim{}, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cache.Len())
}

func TestDimCache_Concurrent(t *testing.T) {
	cache := NewDimCache(4)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := key(fmt.Sprintf("doc-%d", i%4))
			for j := 0; j < 100; j++ {
				cache.Put(k, PageDim{Width: float64(i)})
				cache.Get(k)
				cache.Len()
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, cache.Len(), 4)
}
