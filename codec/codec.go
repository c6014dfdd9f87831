// Package codec turns typed values into the byte keys hashed by filters and
// perfect hash providers.
//
// A KeyFunc must be deterministic: equal values must always encode to equal
// bytes, across processes, or persisted filters stop recognizing their keys.
// Treat the choice of KeyFunc as part of a persisted filter's format.
//
// Encoding can fail (for example MarshalBinary errors). Builders reject a
// member that fails to encode with an error; Contains reports false for a
// value that fails to encode, since such a value can never be a member.
package codec

import (
	"encoding"
	"encoding/binary"
	"fmt"
)

// KeyFunc encodes a value as a hash key.
type KeyFunc[T any] func(v T) ([]byte, error)

// Func adapts an encoder that cannot fail.
func Func[T any](fn func(v T) []byte) KeyFunc[T] {
	return func(v T) ([]byte, error) { return fn(v), nil }
}

// String encodes a string as its UTF-8 bytes.
func String() KeyFunc[string] {
	return Func(func(s string) []byte { return []byte(s) })
}

// Bytes uses the byte slice itself.
func Bytes() KeyFunc[[]byte] {
	return Func(func(b []byte) []byte { return b })
}

// Uint64 encodes as 8 big-endian bytes.
func Uint64() KeyFunc[uint64] {
	return Func(func(v uint64) []byte { return binary.BigEndian.AppendUint64(nil, v) })
}

// Uint32 encodes as 4 big-endian bytes.
func Uint32() KeyFunc[uint32] {
	return Func(func(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) })
}

// Int64 encodes the two's complement bits as 8 big-endian bytes.
func Int64() KeyFunc[int64] {
	return Func(func(v int64) []byte { return binary.BigEndian.AppendUint64(nil, uint64(v)) })
}

// Int encodes like Int64 so keys do not depend on the platform word size.
func Int() KeyFunc[int] {
	return Func(func(v int) []byte { return binary.BigEndian.AppendUint64(nil, uint64(int64(v))) })
}

// Stringer encodes the result of String.
func Stringer[T fmt.Stringer]() KeyFunc[T] {
	return Func(func(v T) []byte { return []byte(v.String()) })
}

// Binary encodes with MarshalBinary.
func Binary[T encoding.BinaryMarshaler]() KeyFunc[T] {
	return func(v T) ([]byte, error) {
		b, err := v.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("codec: marshal %T: %w", v, err)
		}
		return b, nil
	}
}

// Prefixed prepends a fixed namespace to every key produced by fn.
func Prefixed[T any](prefix string, fn KeyFunc[T]) KeyFunc[T] {
	return func(v T) ([]byte, error) {
		k, err := fn(v)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(prefix)+len(k))
		out = append(out, prefix...)
		return append(out, k...), nil
	}
}
