package blobstore

import (
	"context"
	"errors"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/bernoulli/internal/cache"
)

// DefaultBlockSize is the cache granularity used when none is given.
const DefaultBlockSize = 64 << 10

// maxParallelFetches bounds concurrent backend reads per ReadAt.
const maxParallelFetches = 16

// CachingStore wraps a BlobStore and caches fixed-size blocks of blob
// content in memory. Writes and deletes invalidate the cached blocks of the
// affected blob once the inner store has applied them.
//
// Each name carries a generation bumped on every invalidation. A blob only
// uses the cache while its generation is current, so reads in flight across
// a write never repopulate the cache with old content.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	blockSize int64

	mu   sync.RWMutex
	gens map[string]uint64
}

var _ BlobStore = (*CachingStore)(nil)

// NewCachingStore caches up to capacity bytes of inner's content in blocks
// of blockSize bytes. blockSize defaults to DefaultBlockSize if <= 0.
func NewCachingStore(inner BlobStore, capacity, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &CachingStore{
		inner:     inner,
		cache:     cache.NewShardedLRUBlockCache(capacity),
		blockSize: blockSize,
		gens:      make(map[string]uint64),
	}
}

// Stats returns cache hits and misses.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}

// Open opens the blob in the inner store.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	// Read the generation first: a write racing with Open leaves the blob
	// stale, never the cache.
	s.mu.RLock()
	gen := s.gens[name]
	s.mu.RUnlock()

	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{
		inner:     b,
		store:     s,
		name:      name,
		gen:       gen,
		blockSize: s.blockSize,
	}, nil
}

// Put writes through and then invalidates cached blocks of name. The cache is
// invalidated even if the write fails, since the inner store may have
// applied part of it.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	err := s.inner.Put(ctx, name, data)
	s.invalidate(name)
	return err
}

// Delete deletes through and then invalidates cached blocks of name.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	err := s.inner.Delete(ctx, name)
	s.invalidate(name)
	return err
}

// List delegates to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *CachingStore) invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[name]++
	s.cache.Invalidate(func(key cache.Key) bool { return key.Name == name })
}

// get returns a cached block if gen is still current for name.
func (s *CachingStore) get(ctx context.Context, name string, gen uint64, key cache.Key) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.gens[name] != gen {
		return nil, false
	}
	return s.cache.Get(ctx, key)
}

// set caches a block read under gen unless name was invalidated since.
func (s *CachingStore) set(ctx context.Context, name string, gen uint64, key cache.Key, data []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.gens[name] != gen {
		return
	}
	s.cache.Set(ctx, key, data)
}

type cachingBlob struct {
	inner     Blob
	store     *CachingStore
	name      string
	gen       uint64
	blockSize int64
}

func (b *cachingBlob) Close() error { return b.inner.Close() }

func (b *cachingBlob) Size() int64 { return b.inner.Size() }

func (b *cachingBlob) key(blk int64) cache.Key {
	return cache.Key{Name: b.name, Block: uint64(blk)}
}

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	size := b.Size()
	if off >= size {
		return 0, io.EOF
	}
	end := min(off+int64(len(p)), size)

	startBlock := off / b.blockSize
	endBlock := (end - 1) / b.blockSize

	blocks, err := b.fetch(ctx, startBlock, endBlock)
	if err != nil {
		return 0, err
	}

	total := 0
	for blk := startBlock; blk <= endBlock; blk++ {
		data := blocks[blk-startBlock]
		blkStart := blk * b.blockSize
		from := max(off, blkStart) - blkStart
		to := min(end, blkStart+int64(len(data))) - blkStart
		if to <= from {
			break
		}
		total += copy(p[total:], data[from:to])
	}

	if total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

// fetch returns blocks [start, end], reading contiguous runs of missing
// blocks from the inner blob in parallel.
func (b *cachingBlob) fetch(ctx context.Context, start, end int64) ([][]byte, error) {
	blocks := make([][]byte, end-start+1)

	type run struct{ start, count int64 }
	var missing []run
	for blk := start; blk <= end; blk++ {
		if data, ok := b.store.get(ctx, b.name, b.gen, b.key(blk)); ok {
			blocks[blk-start] = data
			continue
		}
		if n := len(missing); n > 0 && missing[n-1].start+missing[n-1].count == blk {
			missing[n-1].count++
		} else {
			missing = append(missing, run{blk, 1})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)

	size := b.Size()
	for _, r := range missing {
		g.Go(func() error {
			byteStart := r.start * b.blockSize
			byteEnd := min((r.start+r.count)*b.blockSize, size)

			buf := make([]byte, byteEnd-byteStart)
			n, err := b.inner.ReadAt(gctx, buf, byteStart)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			buf = buf[:n]

			for i := int64(0); i < r.count; i++ {
				lo := i * b.blockSize
				if lo >= int64(len(buf)) {
					break
				}
				hi := min(lo+b.blockSize, int64(len(buf)))
				// Copy so a cached block does not pin the whole run.
				block := append([]byte(nil), buf[lo:hi]...)
				b.store.set(gctx, b.name, b.gen, b.key(r.start+i), block)
				blocks[r.start+i-start] = block
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}
