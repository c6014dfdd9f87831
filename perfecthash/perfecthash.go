// Package perfecthash defines the perfect-hash provider contract and ships a
// hash-and-displace provider.
//
// A Handle maps every key of the set it was built over to a distinct slot in
// [0, Range). Keys outside the set map to an arbitrary slot in range. A
// provider that cannot separate every key may return a distorted handle; the
// fraction of keys whose slot is shared with another key is reported by
// ErrorRate.
package perfecthash

import (
	"errors"
	"io"
)

var (
	// ErrBuildFailed is returned when no perfect placement was found within the
	// configured budget.
	ErrBuildFailed = errors.New("perfecthash: build failed")
	// ErrInvalidArgument is returned for invalid provider options.
	ErrInvalidArgument = errors.New("perfecthash: invalid argument")
)

// Handle is an immutable perfect hash function over a fixed key set.
type Handle interface {
	// Slot returns the slot of key in [0, Range). The result is meaningless
	// when Range is zero.
	Slot(key []byte) uint32
	// Range returns M, the number of slots.
	Range() uint32
	// Keys returns the number of distinct keys the handle was built over.
	Keys() int
	// ErrorRate returns the fraction of keys that share a slot with another key.
	ErrorRate() float64
	// Equal reports whether other is the same function.
	Equal(other Handle) bool
	// WriteTo writes a self-describing encoding of the handle.
	WriteTo(w io.Writer) (int64, error)
}

// Provider builds and decodes handles.
type Provider interface {
	// Build returns a handle over the distinct keys in keys. An empty key set
	// yields a handle with Range zero.
	Build(keys [][]byte) (Handle, error)
	// ReadHandle decodes a handle written by Handle.WriteTo.
	ReadHandle(r io.Reader) (Handle, error)
}
