package store

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/hupe1980/bernoulli"
	"github.com/hupe1980/bernoulli/blobstore"
	"github.com/hupe1980/bernoulli/codec"
	"github.com/hupe1980/bernoulli/filter"
)

// Store saves and loads filters over a blob store.
// It is safe for concurrent use.
type Store[T any] struct {
	blobs   blobstore.BlobStore
	key     codec.KeyFunc[T]
	opts    options
	limiter *rate.Limiter // nil if unlimited
	group   singleflight.Group
	logger  *bernoulli.Logger
}

// New creates a Store. key must be the key function the filters were built with.
func New[T any](blobs blobstore.BlobStore, key codec.KeyFunc[T], optFns ...Option) (*Store[T], error) {
	if blobs == nil {
		return nil, fmt.Errorf("%w: nil blob store", bernoulli.ErrInvalidArgument)
	}
	if key == nil {
		return nil, fmt.Errorf("%w: nil key function", bernoulli.ErrInvalidArgument)
	}
	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}

	s := &Store[T]{
		blobs:  blobs,
		key:    key,
		opts:   opts,
		logger: opts.logger.WithComponent("store"),
	}
	if opts.limit > 0 {
		s.limiter = rate.NewLimiter(opts.limit, opts.burst)
	}
	return s, nil
}

// Save writes f under name, replacing any previous filter.
func (s *Store[T]) Save(ctx context.Context, name string, f *filter.Filter[T]) error {
	start := time.Now()
	size, err := s.save(ctx, name, f)
	s.opts.metrics.RecordSave(size, time.Since(start), err)
	s.logger.LogSave(ctx, name, size, err)
	return err
}

func (s *Store[T]) save(ctx context.Context, name string, f *filter.Filter[T]) (int, error) {
	if f == nil {
		return 0, fmt.Errorf("%w: nil filter", bernoulli.ErrInvalidArgument)
	}

	var payload bytes.Buffer
	if _, err := f.WriteTo(&payload); err != nil {
		return 0, fmt.Errorf("store: encode %s: %w", name, err)
	}

	data, err := encode(payload.Bytes(), s.opts.compression)
	if err != nil {
		return 0, fmt.Errorf("store: encode %s: %w", name, err)
	}

	if err := s.blobs.Put(ctx, name, data); err != nil {
		return 0, fmt.Errorf("store: put %s: %w", name, err)
	}
	return len(data), nil
}

// Load reads the filter stored under name. Concurrent calls for the same name
// share one read and receive the same filter. The shared read is detached from
// the callers' cancellation: a caller whose ctx is done returns ctx.Err()
// without failing the others. Every call takes its own rate limit token.
func (s *Store[T]) Load(ctx context.Context, name string) (*filter.Filter[T], error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("store: load %s: %w", name, err)
		}
	}

	ch := s.group.DoChan(name, func() (any, error) {
		return s.load(context.WithoutCancel(ctx), name)
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("store: load %s: %w", name, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*filter.Filter[T]), nil
	}
}

func (s *Store[T]) load(ctx context.Context, name string) (*filter.Filter[T], error) {
	start := time.Now()
	f, size, err := s.read(ctx, name)
	s.opts.metrics.RecordLoad(size, time.Since(start), err)
	s.logger.LogLoad(ctx, name, size, err)
	return f, err
}

func (s *Store[T]) read(ctx context.Context, name string) (*filter.Filter[T], int, error) {
	data, err := blobstore.Get(ctx, s.blobs, name)
	if err != nil {
		return nil, 0, fmt.Errorf("store: load %s: %w", name, err)
	}

	payload, err := decode(data)
	if err != nil {
		return nil, len(data), fmt.Errorf("store: load %s: %w", name, err)
	}

	f, err := filter.Read(bytes.NewReader(payload), s.key, s.opts.filterOpts...)
	if err != nil {
		return nil, len(data), fmt.Errorf("store: load %s: %w", name, err)
	}
	return f, len(data), nil
}

// LoadAll loads the named filters in parallel. The result has the order of
// names. The first failure cancels the remaining loads.
func (s *Store[T]) LoadAll(ctx context.Context, names []string) ([]*filter.Filter[T], error) {
	out := make([]*filter.Filter[T], len(names))
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.concurrency)
	for i, name := range names {
		g.Go(func() error {
			f, err := s.Load(gctx, name)
			if err != nil {
				failed.Add(1)
				return err
			}
			out[i] = f
			return nil
		})
	}

	err := g.Wait()
	s.logger.LogBatchLoad(ctx, len(names), int(failed.Load()))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the filter stored under name.
func (s *Store[T]) Delete(ctx context.Context, name string) error {
	if err := s.blobs.Delete(ctx, name); err != nil {
		return fmt.Errorf("store: delete %s: %w", name, err)
	}
	return nil
}

// List returns the names of stored filters starting with prefix.
func (s *Store[T]) List(ctx context.Context, prefix string) ([]string, error) {
	names, err := s.blobs.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return names, nil
}
