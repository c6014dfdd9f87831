package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bernoulli"
	"github.com/hupe1980/bernoulli/binio"
	"github.com/hupe1980/bernoulli/blobstore"
	"github.com/hupe1980/bernoulli/codec"
	"github.com/hupe1980/bernoulli/filter"
)

func buildFilter(t *testing.T, prefix string, n int) *filter.Filter[string] {
	t.Helper()
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s-%d", prefix, i)
	}
	f, err := filter.New(keys, codec.String(), filter.WithBits(16))
	require.NoError(t, err)
	return f
}

func newStore(t *testing.T, blobs blobstore.BlobStore, opts ...Option) *Store[string] {
	t.Helper()
	s, err := New(blobs, codec.String(), opts...)
	require.NoError(t, err)
	return s
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	f := buildFilter(t, "user", 1000)

	for _, c := range []Compression{None, LZ4, ZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			s := newStore(t, blobstore.NewMemoryStore(), WithCompression(c))
			require.NoError(t, s.Save(ctx, "users", f))

			got, err := s.Load(ctx, "users")
			require.NoError(t, err)
			assert.True(t, got.Equal(f))
			assert.True(t, got.Contains("user-42"))
		})
	}
}

func TestSaveLoadLocal(t *testing.T) {
	ctx := context.Background()
	f := buildFilter(t, "k", 200)

	s := newStore(t, blobstore.NewLocalStore(t.TempDir()))
	require.NoError(t, s.Save(ctx, "a/b", f))

	got, err := s.Load(ctx, "a/b")
	require.NoError(t, err)
	assert.True(t, got.Equal(f))
}

func TestLoadMissing(t *testing.T) {
	s := newStore(t, blobstore.NewMemoryStore())
	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestLoadCorrupted(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	s := newStore(t, blobs, WithCompression(None))
	require.NoError(t, s.Save(ctx, "f", buildFilter(t, "k", 100)))

	data, err := blobstore.Get(ctx, blobs, "f")
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	require.NoError(t, blobs.Put(ctx, "f", data))

	_, err = s.Load(ctx, "f")
	assert.ErrorIs(t, err, ErrCorrupted)
}

func TestLoadBadHeader(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	require.NoError(t, blobs.Put(ctx, "f", []byte("\x03xyz\x01")))

	s := newStore(t, blobs)
	_, err := s.Load(ctx, "f")
	assert.ErrorIs(t, err, binio.ErrUnexpectedHeader)
	assert.ErrorIs(t, err, binio.ErrFormat)
}

func TestEnvelope(t *testing.T) {
	payload := []byte("payload payload payload payload payload payload")
	for _, c := range []Compression{None, LZ4, ZSTD} {
		data, err := encode(payload, c)
		require.NoError(t, err)

		got, err := decode(data)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	}

	_, err := decode(nil)
	assert.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, blobstore.NewMemoryStore(), WithConcurrency(2))

	names := []string{"c", "a", "b"}
	want := make(map[string]*filter.Filter[string])
	for _, name := range names {
		f := buildFilter(t, name, 50)
		want[name] = f
		require.NoError(t, s.Save(ctx, name, f))
	}

	got, err := s.LoadAll(ctx, names)
	require.NoError(t, err)
	require.Len(t, got, len(names))
	for i, name := range names {
		assert.True(t, got[i].Equal(want[name]), name)
		assert.True(t, got[i].Contains(name+"-7"))
	}

	_, err = s.LoadAll(ctx, []string{"a", "missing"})
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	got, err = s.LoadAll(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

type gatedStore struct {
	blobstore.BlobStore
	gate  chan struct{}
	opens atomic.Int64
}

func (g *gatedStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	g.opens.Add(1)
	<-g.gate
	return g.BlobStore.Open(ctx, name)
}

func TestLoadSharesConcurrentReads(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	require.NoError(t, newStore(t, mem).Save(ctx, "f", buildFilter(t, "k", 100)))

	gated := &gatedStore{BlobStore: mem, gate: make(chan struct{})}
	s := newStore(t, gated)

	const callers = 8
	results := make([]*filter.Filter[string], callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := s.Load(ctx, "f")
			assert.NoError(t, err)
			results[i] = f
		}()
	}

	require.Eventually(t, func() bool { return gated.opens.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(gated.gate)
	wg.Wait()

	assert.Less(t, gated.opens.Load(), int64(callers))
	for _, f := range results {
		require.NotNil(t, f)
		assert.True(t, f.Contains("k-1"))
	}
}

func TestLoadCanceledCallerDoesNotFailSharedRead(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	require.NoError(t, newStore(t, mem).Save(ctx, "f", buildFilter(t, "k", 100)))

	gated := &gatedStore{BlobStore: mem, gate: make(chan struct{})}
	s := newStore(t, gated)

	firstCtx, cancel := context.WithCancel(ctx)
	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Load(firstCtx, "f")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return gated.opens.Load() >= 1 }, time.Second, time.Millisecond)

	var second *filter.Filter[string]
	secondErr := make(chan error, 1)
	go func() {
		f, err := s.Load(ctx, "f")
		second = f
		secondErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(gated.gate)
	require.NoError(t, <-secondErr)
	require.NotNil(t, second)
	assert.True(t, second.Contains("k-1"))
}

func TestLoadReturnsWhenContextDone(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	require.NoError(t, newStore(t, mem).Save(ctx, "f", buildFilter(t, "k", 10)))

	gated := &gatedStore{BlobStore: mem, gate: make(chan struct{})}
	s := newStore(t, gated)
	defer close(gated.gate)

	tctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err := s.Load(tctx, "f")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimit(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, blobstore.NewMemoryStore(), WithRateLimit(0.001, 1))
	require.NoError(t, s.Save(ctx, "f", buildFilter(t, "k", 10)))

	_, err := s.Load(ctx, "f")
	require.NoError(t, err)

	tctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = s.Load(tctx, "f")
	assert.Error(t, err)
}

func TestDeleteList(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, blobstore.NewMemoryStore())
	f := buildFilter(t, "k", 10)

	for _, name := range []string{"tenant-a/users", "tenant-a/groups", "tenant-b/users"} {
		require.NoError(t, s.Save(ctx, name, f))
	}

	names, err := s.List(ctx, "tenant-a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"tenant-a/groups", "tenant-a/users"}, names)

	require.NoError(t, s.Delete(ctx, "tenant-a/users"))
	names, err = s.List(ctx, "tenant-a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"tenant-a/groups"}, names)
}

func TestMetricsAndLogging(t *testing.T) {
	ctx := context.Background()
	mc := &bernoulli.BasicMetricsCollector{}
	s := newStore(t, blobstore.NewMemoryStore(), WithMetrics(mc), WithLogger(bernoulli.NoopLogger()))

	require.NoError(t, s.Save(ctx, "f", buildFilter(t, "k", 10)))
	_, err := s.Load(ctx, "f")
	require.NoError(t, err)
	_, err = s.Load(ctx, "missing")
	require.Error(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.SaveCount)
	assert.Positive(t, stats.SaveBytes)
	assert.Equal(t, int64(2), stats.LoadCount)
	assert.Equal(t, int64(1), stats.LoadErrors)
	assert.Equal(t, stats.SaveBytes, stats.LoadBytes)
}

func TestOptionsValidation(t *testing.T) {
	mem := blobstore.NewMemoryStore()
	for name, opt := range map[string]Option{
		"compression": WithCompression(Compression(9)),
		"rate":        WithRateLimit(-1, 1),
		"burst":       WithRateLimit(10, 0),
		"concurrency": WithConcurrency(0),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(mem, codec.String(), opt)
			assert.ErrorIs(t, err, bernoulli.ErrInvalidArgument)
		})
	}

	_, err := New[string](nil, codec.String())
	assert.ErrorIs(t, err, bernoulli.ErrInvalidArgument)
	_, err = New[string](mem, nil)
	assert.ErrorIs(t, err, bernoulli.ErrInvalidArgument)

	s := newStore(t, mem)
	err = s.Save(context.Background(), "f", nil)
	assert.True(t, errors.Is(err, bernoulli.ErrInvalidArgument))
}
