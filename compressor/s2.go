package compressor

import (
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
)

// Registry names of the block LZ77 compressors.
const (
	NameS2     = "s2"
	NameSnappy = "snappy"
)

// blockFunc is a stateless block encoder.
type blockFunc struct {
	name   string
	encode func(dst, src []byte) []byte
}

func (c blockFunc) Name() string { return c.name }

func (c blockFunc) CompressedLen(data []byte) (int, error) {
	return len(c.encode(nil, data)), nil
}

// NewS2 returns an S2 compressor using the better-compression encoder.
func NewS2() Compressor {
	return blockFunc{name: NameS2, encode: s2.EncodeBetter}
}

// NewSnappy returns a Snappy-compatible block compressor.
func NewSnappy() Compressor {
	return blockFunc{name: NameSnappy, encode: snappy.Encode}
}
