// Package binio implements the tagged binary format shared by all persisted
// structures.
//
// Integers are big-endian. Variable-length uint32 values use 7-bit groups,
// least significant group first, with the high bit of each byte marking
// continuation (at most 5 bytes). Strings are a varint length followed by the
// raw bytes. Floats are packed explicitly with Pack754 so the format does not
// depend on the host representation.
//
// Every structure starts with a header: a string magic followed by a one-byte
// version.
//
// Writer and Reader keep the first error they encounter; subsequent calls are
// no-ops and the error is reported by Err.
package binio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// MaxStringLen bounds the length of strings accepted by Reader.Str.
const MaxStringLen = 1 << 16

// MaxVarintLen32 is the maximum encoded size of a varint uint32.
const MaxVarintLen32 = 5

// Writer writes the binary format to an io.Writer.
type Writer struct {
	w   io.Writer
	n   int64
	err error
	buf [8]byte
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// N returns the number of bytes written so far.
func (w *Writer) N() int64 { return w.n }

// Err returns the first error encountered.
func (w *Writer) Err() error { return w.err }

// Write implements io.Writer so nested structures can be written through w.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	w.n += int64(n)
	w.err = err
	return n, err
}

// Raw writes p verbatim.
func (w *Writer) Raw(p []byte) {
	_, _ = w.Write(p)
}

// U8 writes a single byte.
func (w *Writer) U8(v uint8) {
	w.buf[0] = v
	w.Raw(w.buf[:1])
}

// U16 writes a big-endian uint16.
func (w *Writer) U16(v uint16) {
	binary.BigEndian.PutUint16(w.buf[:2], v)
	w.Raw(w.buf[:2])
}

// U32 writes a big-endian uint32.
func (w *Writer) U32(v uint32) {
	binary.BigEndian.PutUint32(w.buf[:4], v)
	w.Raw(w.buf[:4])
}

// U64 writes a big-endian uint64.
func (w *Writer) U64(v uint64) {
	binary.BigEndian.PutUint64(w.buf[:8], v)
	w.Raw(w.buf[:8])
}

// VarU32 writes v as a varint.
func (w *Writer) VarU32(v uint32) {
	i := 0
	for v > 0x7f {
		w.buf[i] = byte(v&0x7f) | 0x80
		v >>= 7
		i++
	}
	w.buf[i] = byte(v)
	w.Raw(w.buf[:i+1])
}

// Str writes a varint length followed by the bytes of s.
func (w *Writer) Str(s string) {
	if w.err != nil {
		return
	}
	if len(s) > MaxStringLen {
		w.err = fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
		return
	}
	w.VarU32(uint32(len(s)))
	w.Raw([]byte(s))
}

// Float32 writes f packed as binary32.
func (w *Writer) Float32(f float32) {
	w.U32(uint32(Pack754(float64(f), 32, 8)))
}

// Float64 writes f packed as binary64.
func (w *Writer) Float64(f float64) {
	w.U64(Pack754(f, 64, 11))
}

// Header writes a structure header.
func (w *Writer) Header(magic string, version uint8) {
	w.Str(magic)
	w.U8(version)
}

// Reader reads the binary format from an io.Reader.
//
// Reader does not buffer: it consumes exactly the bytes of the values it
// decodes, so nested structures may share the underlying reader.
type Reader struct {
	r   io.Reader
	n   int64
	err error
	buf [8]byte
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// N returns the number of bytes consumed so far.
func (r *Reader) N() int64 { return r.n }

// Err returns the first error encountered. A truncated input is reported as
// io.ErrUnexpectedEOF.
func (r *Reader) Err() error { return r.err }

// Fail records err unless an error was already recorded.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Read implements io.Reader so nested structures can be decoded through r.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	r.n += int64(n)
	if err != nil && err != io.EOF {
		r.err = err
	}
	return n, err
}

// Raw fills p completely.
func (r *Reader) Raw(p []byte) {
	if r.err != nil {
		return
	}
	n, err := io.ReadFull(r.r, p)
	r.n += int64(n)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	r.err = err
}

// Bytes reads n bytes. Large lengths are read in chunks so a bogus length in
// the input fails with io.ErrUnexpectedEOF instead of allocating n up front.
func (r *Reader) Bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 {
		r.err = fmt.Errorf("%w: negative length %d", ErrFormat, n)
		return nil
	}
	if n <= MaxStringLen {
		p := make([]byte, n)
		r.Raw(p)
		if r.err != nil {
			return nil
		}
		return p
	}

	var buf bytes.Buffer
	m, err := io.CopyN(&buf, r.r, int64(n))
	r.n += m
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		r.err = err
		return nil
	}
	return buf.Bytes()
}

// U8 reads a single byte.
func (r *Reader) U8() uint8 {
	r.Raw(r.buf[:1])
	if r.err != nil {
		return 0
	}
	return r.buf[0]
}

// U16 reads a big-endian uint16.
func (r *Reader) U16() uint16 {
	r.Raw(r.buf[:2])
	if r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint16(r.buf[:2])
}

// U32 reads a big-endian uint32.
func (r *Reader) U32() uint32 {
	r.Raw(r.buf[:4])
	if r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint32(r.buf[:4])
}

// U64 reads a big-endian uint64.
func (r *Reader) U64() uint64 {
	r.Raw(r.buf[:8])
	if r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint64(r.buf[:8])
}

// VarU32 reads a varint.
func (r *Reader) VarU32() uint32 {
	var v uint32
	for i := 0; i < MaxVarintLen32; i++ {
		b := r.U8()
		if r.err != nil {
			return 0
		}
		if i == MaxVarintLen32-1 && b > 0x0f {
			r.err = ErrVarintOverflow
			return 0
		}
		v |= uint32(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return v
		}
	}
	return v
}

// Str reads a varint-length-prefixed string.
func (r *Reader) Str() string {
	l := r.VarU32()
	if r.err != nil {
		return ""
	}
	if l > MaxStringLen {
		r.err = fmt.Errorf("%w: %d bytes", ErrStringTooLong, l)
		return ""
	}
	p := make([]byte, l)
	r.Raw(p)
	if r.err != nil {
		return ""
	}
	return string(p)
}

// Float32 reads a packed binary32.
func (r *Reader) Float32() float32 {
	return float32(Unpack754(uint64(r.U32()), 32, 8))
}

// Float64 reads a packed binary64.
func (r *Reader) Float64() float64 {
	return Unpack754(r.U64(), 64, 11)
}

// ExpectHeader reads a structure header and records a *FormatError if the
// magic or version differ from the expected values.
func (r *Reader) ExpectHeader(magic string, version uint8) {
	got := r.Str()
	if r.err != nil {
		return
	}
	if got != magic {
		r.err = &FormatError{Kind: ErrUnexpectedHeader, Want: magic, Got: got}
		return
	}
	v := r.U8()
	if r.err != nil {
		return
	}
	if v != version {
		r.err = &FormatError{
			Kind: ErrUnexpectedVersion,
			Want: fmt.Sprint(version),
			Got:  fmt.Sprint(v),
		}
	}
}
