package filter

import (
	"fmt"

	"github.com/spaolacci/murmur3"

	"github.com/hupe1980/bernoulli"
	"github.com/hupe1980/bernoulli/perfecthash"
)

const (
	// DefaultBits is the default truncated hash width.
	DefaultBits = 8
	// MaxBits is the widest supported hash code.
	MaxBits = 64
)

// HashFunc hashes an encoded key. It must be deterministic.
type HashFunc func(key []byte) uint64

// DefaultHashSeed seeds the default code hash. It differs from the seeds the
// CHD provider hashes keys with, so stored codes do not depend on slot choice.
const DefaultHashSeed uint32 = 0x9e3779b9

// DefaultHash is the 64-bit murmur3 hash of key with DefaultHashSeed.
func DefaultHash(key []byte) uint64 {
	return murmur3.Sum64WithSeed(key, DefaultHashSeed)
}

type options struct {
	bits     int
	provider perfecthash.Provider
	hash     HashFunc
	logger   *bernoulli.Logger
	metrics  bernoulli.MetricsCollector
}

// Option configures a filter.
type Option func(*options)

// WithBits sets the number of hash bits stored per slot. The false positive
// rate is 2^-bits.
func WithBits(bits int) Option {
	return func(o *options) {
		o.bits = bits
	}
}

// WithProvider sets the perfect hash provider. Filters must be read back with
// a provider that understands the handle format they were written with.
func WithProvider(p perfecthash.Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithHashFunc sets the key hash. Filters must be queried with the hash they
// were built with; it is not persisted.
func WithHashFunc(fn HashFunc) Option {
	return func(o *options) {
		o.hash = fn
	}
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *bernoulli.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the collector notified of builds.
func WithMetrics(mc bernoulli.MetricsCollector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}

func applyOptions(optFns []Option) (options, error) {
	opts := options{
		bits:    DefaultBits,
		hash:    DefaultHash,
		logger:  bernoulli.NoopLogger(),
		metrics: bernoulli.NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.bits < 1 || opts.bits > MaxBits {
		return opts, fmt.Errorf("%w: bits %d not in [1, %d]", bernoulli.ErrInvalidArgument, opts.bits, MaxBits)
	}
	if opts.hash == nil {
		return opts, fmt.Errorf("%w: nil hash function", bernoulli.ErrInvalidArgument)
	}
	if opts.provider == nil {
		p, err := perfecthash.NewCHD()
		if err != nil {
			return opts, err
		}
		opts.provider = p
	}
	if opts.logger == nil {
		opts.logger = bernoulli.NoopLogger()
	}
	if opts.metrics == nil {
		opts.metrics = bernoulli.NoopMetricsCollector{}
	}
	return opts, nil
}
