// Package bernoulli provides approximate sets: space-efficient membership
// structures for static key sets that trade a bounded, quantified error rate
// for memory.
//
// Every approximate set implements Set. Besides answering Contains, a set
// reports its false positive and false negative rates as intervals, because
// the exact rate of a composed set depends on how the errors of its operands
// correlate, which is unknown.
//
// # Filters
//
// The filter package implements the rate-distorted filter: a perfect hash maps
// each key to its own slot, and the slot stores the low k bits of the key's
// hash. Non-members collide with probability 2^-k.
//
//	f, err := filter.New([]string{"a", "b", "c"}, codec.String(), filter.WithBits(8))
//	f.Contains("a") // true
//	f.Contains("z") // false with probability 1 - 2^-8
//
// Package bloomset adapts a classic Bloom filter to the same interface.
//
// # Set algebra
//
// Sets compose into expression trees:
//
//	u := bernoulli.MakeUnion[string](f, g)
//	i := bernoulli.MakeIntersection[string](f, g)
//	p := bernoulli.MakeCartesianProduct[string, int](f, h)
//
// The Make* constructors apply the identities of the empty and universal sets
// before allocating a node, so x ∪ ∅ returns x and x ∪ U returns U.
//
// Equality of composite sets is structural: two trees are equal when they are
// equal node by node. Different trees may still describe the same set.
//
// # Persistence
//
// Filters, bit vectors and packed arrays serialize to a tagged big-endian
// binary format (package binio). Package store persists filters in a blob
// store (package blobstore: memory, local disk, MinIO, S3) with optional
// compression and checksums.
//
// # Concurrency
//
// All sets are immutable once built and safe for concurrent readers.
package bernoulli
