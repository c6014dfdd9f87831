package perfecthash

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/spaolacci/murmur3"

	"github.com/hupe1980/bernoulli/binio"
)

const (
	chdMagic   = "chd"
	chdVersion = 1

	// DefaultLoadFactor is the default ratio of keys to slots.
	DefaultLoadFactor = 0.9
	// DefaultBucketSize is the default average number of keys per bucket.
	DefaultBucketSize = 5
	// DefaultMaxDisplacement is the default number of displacements tried per bucket.
	DefaultMaxDisplacement = 1 << 16
	// DefaultMaxAttempts is the default number of global seeds tried.
	DefaultMaxAttempts = 8

	maxPrealloc = 1 << 12
)

type options struct {
	loadFactor      float64
	bucketSize      int
	maxDisplacement uint32
	maxAttempts     int
	seed            uint32
	distort         bool
}

// Option configures the CHD provider.
type Option func(*options)

// WithLoadFactor sets the ratio of keys to slots, in (0, 1].
func WithLoadFactor(f float64) Option {
	return func(o *options) {
		o.loadFactor = f
	}
}

// WithBucketSize sets the average number of keys per bucket.
func WithBucketSize(n int) Option {
	return func(o *options) {
		o.bucketSize = n
	}
}

// WithMaxDisplacement bounds the displacement search per bucket.
func WithMaxDisplacement(n uint32) Option {
	return func(o *options) {
		o.maxDisplacement = n
	}
}

// WithMaxAttempts bounds the number of global seeds tried before giving up.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		o.maxAttempts = n
	}
}

// WithSeed sets the first global seed.
func WithSeed(seed uint32) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithDistortion makes Build accept collisions instead of failing. A bucket
// that cannot be placed perfectly takes the displacement with the fewest
// collisions; the handle's ErrorRate reports the fraction of colliding keys.
func WithDistortion(enabled bool) Option {
	return func(o *options) {
		o.distort = enabled
	}
}

// CHD is a compress-hash-displace style provider.
//
// Keys are split into buckets by a first hash; buckets are placed largest
// first, each searching for a displacement that sends all its keys to free,
// distinct slots.
type CHD struct {
	opts options
}

var _ Provider = (*CHD)(nil)

// NewCHD returns a CHD provider.
func NewCHD(optFns ...Option) (*CHD, error) {
	opts := options{
		loadFactor:      DefaultLoadFactor,
		bucketSize:      DefaultBucketSize,
		maxDisplacement: DefaultMaxDisplacement,
		maxAttempts:     DefaultMaxAttempts,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if !(opts.loadFactor > 0 && opts.loadFactor <= 1) {
		return nil, fmt.Errorf("%w: load factor %g not in (0, 1]", ErrInvalidArgument, opts.loadFactor)
	}
	if opts.bucketSize < 1 {
		return nil, fmt.Errorf("%w: bucket size %d", ErrInvalidArgument, opts.bucketSize)
	}
	if opts.maxDisplacement < 1 {
		return nil, fmt.Errorf("%w: max displacement %d", ErrInvalidArgument, opts.maxDisplacement)
	}
	if opts.maxAttempts < 1 {
		return nil, fmt.Errorf("%w: max attempts %d", ErrInvalidArgument, opts.maxAttempts)
	}
	return &CHD{opts: opts}, nil
}

// Build implements Provider.
func (p *CHD) Build(keys [][]byte) (Handle, error) {
	keys = dedupe(keys)
	n := len(keys)
	if n == 0 {
		return &chdHandle{}, nil
	}
	if uint64(n) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d keys", ErrInvalidArgument, n)
	}

	m := uint32(math.Ceil(float64(n) / p.opts.loadFactor))
	nb := uint32((n + p.opts.bucketSize - 1) / p.opts.bucketSize)

	attempts := p.opts.maxAttempts
	if p.opts.distort {
		attempts = 1
	}

	for a := 0; a < attempts; a++ {
		seed := p.opts.seed + uint32(a)
		h, ok := p.place(keys, m, nb, seed)
		if ok {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: %d keys into %d slots after %d attempts", ErrBuildFailed, n, m, attempts)
}

// ReadHandle implements Provider.
func (p *CHD) ReadHandle(r io.Reader) (Handle, error) {
	return ReadCHDHandle(r)
}

func (p *CHD) place(keys [][]byte, m, nb, seed uint32) (*chdHandle, bool) {
	hashed := make([]uint64, len(keys))
	buckets := make([][]int, nb)
	for i, k := range keys {
		h1, h2 := murmur3.Sum128WithSeed(k, seed)
		b := uint32(h1 % uint64(nb))
		hashed[i] = h2
		buckets[b] = append(buckets[b], i)
	}

	order := make([]uint32, nb)
	for i := range order {
		order[i] = uint32(i)
	}
	slices.SortStableFunc(order, func(a, b uint32) int {
		return cmp.Compare(len(buckets[b]), len(buckets[a]))
	})

	occupied := roaring.New()
	disp := make([]uint32, nb)
	slots := make([]uint32, 0, 4*p.opts.bucketSize)
	collisions := 0

	for _, b := range order {
		members := buckets[b]
		if len(members) == 0 {
			break
		}

		bestD, bestC := uint32(0), math.MaxInt
		for d := uint32(0); d < p.opts.maxDisplacement; d++ {
			slots = slots[:0]
			c := 0
			for _, i := range members {
				s := slotOf(hashed[i], d, m)
				if occupied.Contains(s) || slices.Contains(slots, s) {
					c++
				}
				slots = append(slots, s)
			}
			if c < bestC {
				bestD, bestC = d, c
			}
			if c == 0 {
				break
			}
		}

		if bestC > 0 && !p.opts.distort {
			return nil, false
		}

		disp[b] = bestD
		collisions += bestC
		for _, i := range members {
			occupied.Add(slotOf(hashed[i], bestD, m))
		}
	}

	return &chdHandle{
		n:         uint32(len(keys)),
		m:         m,
		seed:      seed,
		errorRate: float64(collisions) / float64(len(keys)),
		disp:      disp,
	}, true
}

func dedupe(keys [][]byte) [][]byte {
	seen := make(map[string]struct{}, len(keys))
	out := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[string(k)]; ok {
			continue
		}
		seen[string(k)] = struct{}{}
		out = append(out, k)
	}
	return out
}

// slotOf mixes the position hash with the displacement (splitmix64 finalizer).
func slotOf(h uint64, d, m uint32) uint32 {
	x := h ^ (uint64(d) * 0x9e3779b97f4a7c15)
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return uint32(x % uint64(m))
}

type chdHandle struct {
	n         uint32
	m         uint32
	seed      uint32
	errorRate float64
	disp      []uint32
}

func (h *chdHandle) Slot(key []byte) uint32 {
	if len(h.disp) == 0 {
		return 0
	}
	h1, h2 := murmur3.Sum128WithSeed(key, h.seed)
	b := h1 % uint64(len(h.disp))
	return slotOf(h2, h.disp[b], h.m)
}

func (h *chdHandle) Range() uint32 { return h.m }

func (h *chdHandle) Keys() int { return int(h.n) }

func (h *chdHandle) ErrorRate() float64 { return h.errorRate }

func (h *chdHandle) Equal(other Handle) bool {
	o, ok := other.(*chdHandle)
	if !ok {
		return false
	}
	return h.n == o.n &&
		h.m == o.m &&
		h.seed == o.seed &&
		h.errorRate == o.errorRate &&
		slices.Equal(h.disp, o.disp)
}

func (h *chdHandle) String() string {
	return fmt.Sprintf("chd(keys=%d, slots=%d, buckets=%d, error=%g)", h.n, h.m, len(h.disp), h.errorRate)
}

// WriteTo writes: header "chd", version 1, varint n, varint M, u32 seed,
// float64 error rate, varint bucket count, one varint displacement per bucket.
func (h *chdHandle) WriteTo(w io.Writer) (int64, error) {
	bw := binio.NewWriter(w)
	bw.Header(chdMagic, chdVersion)
	bw.VarU32(h.n)
	bw.VarU32(h.m)
	bw.U32(h.seed)
	bw.Float64(h.errorRate)
	bw.VarU32(uint32(len(h.disp)))
	for _, d := range h.disp {
		bw.VarU32(d)
	}
	return bw.N(), bw.Err()
}

// ReadCHDHandle decodes a handle written by a CHD handle's WriteTo.
func ReadCHDHandle(r io.Reader) (Handle, error) {
	br := binio.NewReader(r)
	br.ExpectHeader(chdMagic, chdVersion)
	h := &chdHandle{
		n:         br.VarU32(),
		m:         br.VarU32(),
		seed:      br.U32(),
		errorRate: br.Float64(),
	}
	nb := br.VarU32()
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("perfecthash: %w", err)
	}

	switch {
	case h.n == 0 && (h.m != 0 || nb != 0):
		br.Fail(fmt.Errorf("%w: empty handle with %d slots", binio.ErrFormat, h.m))
	case h.n > 0 && (h.m == 0 || nb == 0 || nb > h.n):
		br.Fail(fmt.Errorf("%w: %d keys, %d slots, %d buckets", binio.ErrFormat, h.n, h.m, nb))
	case !(h.errorRate >= 0 && h.errorRate <= 1):
		br.Fail(fmt.Errorf("%w: error rate %g", binio.ErrFormat, h.errorRate))
	}

	// nb comes from the input; grow as displacements arrive.
	if nb > 0 && br.Err() == nil {
		h.disp = make([]uint32, 0, min(nb, maxPrealloc))
		for i := uint32(0); i < nb && br.Err() == nil; i++ {
			h.disp = append(h.disp, br.VarU32())
		}
	}
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("perfecthash: %w", err)
	}
	return h, nil
}
