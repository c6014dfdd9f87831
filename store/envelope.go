package store

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/hupe1980/bernoulli/binio"
	"github.com/hupe1980/bernoulli/internal/compress"
	"github.com/hupe1980/bernoulli/internal/hash"
)

const (
	magic   = "bfs"
	version = 1
)

// ErrCorrupted is returned when a blob fails its checksum.
var ErrCorrupted = errors.New("store: checksum mismatch")

// encode wraps an encoded filter in an envelope:
// header "bfs", version 1, u8 compression, u32 CRC32-C of payload, block.
func encode(payload []byte, c Compression) ([]byte, error) {
	block, err := compress.Compress(payload, c)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(block) + 16)
	w := binio.NewWriter(&buf)
	w.Header(magic, version)
	w.U8(uint8(c))
	w.U32(hash.CRC32C(payload))
	w.Raw(block)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decode verifies an envelope and returns the filter payload.
func decode(data []byte) ([]byte, error) {
	r := binio.NewReader(bytes.NewReader(data))
	r.ExpectHeader(magic, version)
	c := Compression(r.U8())
	sum := r.U32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: store: compression %s", binio.ErrFormat, c)
	}

	payload, err := compress.Decompress(data[r.N():], c)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	if got := hash.CRC32C(payload); got != sum {
		return nil, fmt.Errorf("%w: got %08x, want %08x", ErrCorrupted, got, sum)
	}
	return payload, nil
}
