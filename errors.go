package bernoulli

import (
	"errors"

	"github.com/hupe1980/bernoulli/binio"
	"github.com/hupe1980/bernoulli/bitvector"
	"github.com/hupe1980/bernoulli/packed"
)

// ErrInvalidArgument is returned when a constructor receives a value outside
// its declared range.
var ErrInvalidArgument = errors.New("bernoulli: invalid argument")

// Re-exported error kinds. Callers can test for them with errors.Is without
// importing the lower-level packages.
var (
	// ErrFormat matches every deserialization failure.
	ErrFormat = binio.ErrFormat
	// ErrUnexpectedHeader is returned when a magic tag does not match.
	ErrUnexpectedHeader = binio.ErrUnexpectedHeader
	// ErrUnexpectedVersion is returned for an unsupported format version.
	ErrUnexpectedVersion = binio.ErrUnexpectedVersion
	// ErrSizeMismatch is returned by bitwise operations on differently sized vectors.
	ErrSizeMismatch = bitvector.ErrSizeMismatch
	// ErrBitIndexOutOfRange is returned for a bit index past the vector length.
	ErrBitIndexOutOfRange = bitvector.ErrIndexOutOfRange
	// ErrIndexOutOfRange is returned for an element index past a packed array.
	ErrIndexOutOfRange = packed.ErrIndexOutOfRange
)

// FormatError describes an unexpected header or version.
type FormatError = binio.FormatError
