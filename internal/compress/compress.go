// Package compress implements the block compression used by the filter
// store.
//
// A block is: u32 uncompressed size, u32 compressed size, data (big-endian
// sizes). A compressed size of 0 means the data is stored raw, which happens
// when compression saves less than 10% or would expand more than 4096 times.
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type identifies a compression algorithm.
type Type uint8

const (
	// None stores blocks raw.
	None Type = 0
	// LZ4 favors speed.
	LZ4 Type = 1
	// ZSTD favors ratio.
	ZSTD Type = 2
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	}
	return fmt.Sprintf("compress.Type(%d)", uint8(t))
}

// Valid reports whether t is a known algorithm.
func (t Type) Valid() bool { return t <= ZSTD }

var (
	// ErrCorrupt is returned for malformed blocks.
	ErrCorrupt = errors.New("compress: corrupt block")
	// ErrUnknownType is returned for an unknown algorithm.
	ErrUnknownType = errors.New("compress: unknown type")
)

const headerSize = 8

// Store the block raw unless compression reaches this ratio.
const maxRatio = 0.9

// maxExpansion bounds uncompressed size per compressed byte. Decompress checks
// it before allocating; Compress stores blocks beyond it raw.
const maxExpansion = 1 << 12

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecodeAllCapLimit(true))
}

// Compress encodes data as a block.
func Compress(data []byte, t Type) ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	if uint64(len(data)) > math.MaxUint32 {
		return nil, fmt.Errorf("compress: block of %d bytes too large", len(data))
	}

	var compressed []byte
	switch t {
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case ZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, err
		}
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	if t == None || len(compressed) == 0 ||
		float64(len(compressed)) > float64(len(data))*maxRatio ||
		uint64(len(data)) > uint64(len(compressed))*maxExpansion {
		return frame(data, 0), nil
	}
	return frame(compressed, uint32(len(data))), nil
}

func frame(payload []byte, uncompressed uint32) []byte {
	out := make([]byte, headerSize+len(payload))
	if uncompressed == 0 {
		binary.BigEndian.PutUint32(out[0:], uint32(len(payload)))
		binary.BigEndian.PutUint32(out[4:], 0)
	} else {
		binary.BigEndian.PutUint32(out[0:], uncompressed)
		binary.BigEndian.PutUint32(out[4:], uint32(len(payload)))
	}
	copy(out[headerSize:], payload)
	return out
}

// Decompress decodes a block written by Compress with the same type.
func Decompress(block []byte, t Type) ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	if len(block) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(block))
	}

	size := uint64(binary.BigEndian.Uint32(block[0:]))
	csize := uint64(binary.BigEndian.Uint32(block[4:]))
	body := block[headerSize:]

	if csize == 0 {
		if uint64(len(body)) != size {
			return nil, fmt.Errorf("%w: raw block has %d bytes, want %d", ErrCorrupt, len(body), size)
		}
		return body, nil
	}
	if uint64(len(body)) != csize {
		return nil, fmt.Errorf("%w: compressed block has %d bytes, want %d", ErrCorrupt, len(body), csize)
	}
	if size > csize*maxExpansion {
		return nil, fmt.Errorf("%w: %d bytes cannot expand to %d", ErrCorrupt, csize, size)
	}

	out := make([]byte, size)
	switch t {
	case LZ4:
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint64(n) != size {
			return nil, fmt.Errorf("%w: decompressed %d bytes, want %d", ErrCorrupt, n, size)
		}
		return out, nil
	case ZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)
		decoded, err := dec.DecodeAll(body, out[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint64(len(decoded)) != size {
			return nil, fmt.Errorf("%w: decompressed %d bytes, want %d", ErrCorrupt, len(decoded), size)
		}
		return decoded, nil
	}
	return nil, fmt.Errorf("%w: compressed block for type %s", ErrCorrupt, t)
}
