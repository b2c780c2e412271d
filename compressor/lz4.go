package compressor

import (
	"fmt"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// Registry names of the LZ4 compressors.
const (
	NameLZ4      = "lz4"
	NameLZ4Block = "lz4-block"
)

type lz4Writer struct {
	*lz4.Writer
}

func (w lz4Writer) Reset(dst io.Writer) error {
	w.Writer.Reset(dst)
	return nil
}

// NewLZ4 returns an LZ4 frame-format compressor.
func NewLZ4() Compressor {
	return &streamCompressor{
		name: NameLZ4,
		newWriter: func(w io.Writer) (resetWriter, error) {
			return lz4Writer{Writer: lz4.NewWriter(w)}, nil
		},
	}
}

type lz4BlockCompressor struct {
	bufPool sync.Pool
}

// NewLZ4Block returns an LZ4 block-format compressor.
//
// Block compression needs at least one byte of input. Blocks LZ4 cannot
// shrink are measured at their stored size, like an uncompressed block.
func NewLZ4Block() Compressor {
	return &lz4BlockCompressor{}
}

func (c *lz4BlockCompressor) Name() string { return NameLZ4Block }

func (c *lz4BlockCompressor) CompressedLen(data []byte) (int, error) {
	if len(data) < 1 {
		return 0, &UnsupportedInputError{Compressor: NameLZ4Block, Size: len(data), Min: 1}
	}

	bound := lz4.CompressBlockBound(len(data))
	var buf []byte
	if v := c.bufPool.Get(); v != nil {
		buf = *(v.(*[]byte))
	}
	if cap(buf) < bound {
		buf = make([]byte, bound)
	}
	buf = buf[:bound]
	defer c.bufPool.Put(&buf)

	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: compress %d bytes: %w", NameLZ4Block, len(data), err)
	}
	if n == 0 {
		// Incompressible
		return len(data), nil
	}
	return n, nil
}
