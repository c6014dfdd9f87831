package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUBlockCache(t *testing.T) {
	ctx := context.Background()
	c := NewLRUBlockCache(10)

	c.Set(ctx, Key{Name: "a", Block: 0}, []byte("1234"))
	c.Set(ctx, Key{Name: "a", Block: 1}, []byte("5678"))

	got, ok := c.Get(ctx, Key{Name: "a", Block: 0})
	require.True(t, ok)
	assert.Equal(t, []byte("1234"), got)

	// evicts block 1, the least recently used
	c.Set(ctx, Key{Name: "b", Block: 0}, []byte("abcd"))
	_, ok = c.Get(ctx, Key{Name: "a", Block: 1})
	assert.False(t, ok)
	assert.Equal(t, int64(8), c.Size())
	assert.Equal(t, 2, c.Len())

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRUBlockCacheOversized(t *testing.T) {
	ctx := context.Background()
	c := NewLRUBlockCache(4)
	c.Set(ctx, Key{Name: "a"}, []byte("too large"))
	_, ok := c.Get(ctx, Key{Name: "a"})
	assert.False(t, ok)
	assert.Zero(t, c.Size())
}

func TestLRUBlockCacheUpdate(t *testing.T) {
	ctx := context.Background()
	c := NewLRUBlockCache(8)
	c.Set(ctx, Key{Name: "a"}, []byte("12"))
	c.Set(ctx, Key{Name: "b"}, []byte("34"))
	c.Set(ctx, Key{Name: "a"}, []byte("123456"))
	assert.Equal(t, int64(8), c.Size())

	c.Set(ctx, Key{Name: "a"}, []byte("123456789"))
	assert.LessOrEqual(t, c.Size(), int64(8))
}

func TestLRUBlockCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewLRUBlockCache(100)
	for i := range 5 {
		c.Set(ctx, Key{Name: "a", Block: uint64(i)}, []byte{byte(i)})
		c.Set(ctx, Key{Name: "b", Block: uint64(i)}, []byte{byte(i)})
	}

	c.Invalidate(func(k Key) bool { return k.Name == "a" })
	assert.Equal(t, 5, c.Len())
	_, ok := c.Get(ctx, Key{Name: "a", Block: 2})
	assert.False(t, ok)
	_, ok = c.Get(ctx, Key{Name: "b", Block: 2})
	assert.True(t, ok)
}

func TestShardedLRUBlockCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewShardedLRUBlockCache(1 << 20)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				k := Key{Name: fmt.Sprintf("blob-%d", g), Block: uint64(i)}
				c.Set(ctx, k, []byte{byte(g), byte(i)})
				got, ok := c.Get(ctx, k)
				if assert.True(t, ok) {
					assert.Equal(t, []byte{byte(g), byte(i)}, got)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(8*100*2), c.Size())
	hits, _ := c.Stats()
	assert.Equal(t, int64(800), hits)

	c.Invalidate(func(k Key) bool { return k.Name == "blob-0" })
	assert.Equal(t, int64(7*100*2), c.Size())
}
