package binio

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is the root of all malformed-input errors.
	ErrFormat = errors.New("binio: invalid format")

	// ErrUnexpectedHeader is returned when a structure's magic string does not match.
	ErrUnexpectedHeader = fmt.Errorf("%w: unexpected header", ErrFormat)

	// ErrUnexpectedVersion is returned when a structure's version byte is not supported.
	ErrUnexpectedVersion = fmt.Errorf("%w: unexpected version", ErrFormat)

	// ErrVarintOverflow is returned when a varint does not fit into 32 bits.
	ErrVarintOverflow = fmt.Errorf("%w: varint overflows uint32", ErrFormat)

	// ErrStringTooLong is returned when a length-prefixed string exceeds MaxStringLen.
	ErrStringTooLong = fmt.Errorf("%w: string too long", ErrFormat)
)

// FormatError describes a header or version mismatch.
//
// errors.Is(err, ErrFormat) holds for every FormatError.
type FormatError struct {
	Kind error // ErrUnexpectedHeader or ErrUnexpectedVersion
	Want string
	Got  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: want %q, got %q", e.Kind, e.Want, e.Got)
}

func (e *FormatError) Unwrap() error { return e.Kind }
