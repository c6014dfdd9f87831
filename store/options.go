package store

import (
	"fmt"

	"golang.org/x/time/rate"

	"github.com/hupe1980/bernoulli"
	"github.com/hupe1980/bernoulli/filter"
	"github.com/hupe1980/bernoulli/internal/compress"
)

// Compression selects the block compression of saved filters.
type Compression = compress.Type

const (
	// None stores filters uncompressed.
	None = compress.None
	// LZ4 favors speed.
	LZ4 = compress.LZ4
	// ZSTD favors ratio.
	ZSTD = compress.ZSTD
)

// DefaultConcurrency is the default number of parallel loads in LoadAll.
const DefaultConcurrency = 8

type options struct {
	compression Compression
	filterOpts  []filter.Option
	limit       rate.Limit
	burst       int
	concurrency int
	logger      *bernoulli.Logger
	metrics     bernoulli.MetricsCollector
}

// Option configures a Store.
type Option func(*options)

// WithCompression sets the compression used by Save. Load reads the type
// from each blob, so stores with different settings can share blobs.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithFilterOptions sets the options passed to filter.Read. They must match
// the hash function and provider the filters were built with.
func WithFilterOptions(opts ...filter.Option) Option {
	return func(o *options) {
		o.filterOpts = append(o.filterOpts, opts...)
	}
}

// WithRateLimit limits backend reads to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		o.limit = rate.Limit(perSecond)
		o.burst = burst
	}
}

// WithConcurrency sets the number of parallel loads in LoadAll.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *bernoulli.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(mc bernoulli.MetricsCollector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}

func applyOptions(optFns []Option) (options, error) {
	opts := options{
		compression: LZ4,
		concurrency: DefaultConcurrency,
		logger:      bernoulli.NoopLogger(),
		metrics:     bernoulli.NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if !opts.compression.Valid() {
		return opts, fmt.Errorf("%w: compression %s", bernoulli.ErrInvalidArgument, opts.compression)
	}
	if opts.limit < 0 {
		return opts, fmt.Errorf("%w: negative rate limit", bernoulli.ErrInvalidArgument)
	}
	if opts.limit > 0 && opts.burst < 1 {
		return opts, fmt.Errorf("%w: rate limit burst %d", bernoulli.ErrInvalidArgument, opts.burst)
	}
	if opts.concurrency < 1 {
		return opts, fmt.Errorf("%w: concurrency %d", bernoulli.ErrInvalidArgument, opts.concurrency)
	}
	if opts.logger == nil {
		opts.logger = bernoulli.NoopLogger()
	}
	if opts.metrics == nil {
		opts.metrics = bernoulli.NoopMetricsCollector{}
	}
	return opts, nil
}
