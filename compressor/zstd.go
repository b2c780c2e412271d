package compressor

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// NameZstd is the registry name of the Zstandard compressor.
const NameZstd = "zstd"

type zstdCompressor struct {
	pool sync.Pool
}

// NewZstd returns a Zstandard compressor at its best-compression level.
func NewZstd() Compressor {
	return &zstdCompressor{}
}

func (c *zstdCompressor) Name() string { return NameZstd }

func (c *zstdCompressor) CompressedLen(data []byte) (int, error) {
	enc, err := c.get()
	if err != nil {
		return 0, fmt.Errorf("%s: create encoder: %w", NameZstd, err)
	}
	defer c.pool.Put(enc)

	return len(enc.EncodeAll(data, nil)), nil
}

func (c *zstdCompressor) get() (*zstd.Encoder, error) {
	if v := c.pool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		zstd.WithEncoderConcurrency(1),
	)
}
