package compressor

import (
	"fmt"

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// Registry names of the LZMA compressors.
const (
	NameLZMA      = "lzma"
	NameLZMAAlone = "lzma-alone"
)

type lzmaCompressor struct {
	name string
	xz   bool
}

// NewXZ returns an LZMA2 compressor that writes the xz container.
func NewXZ() Compressor {
	return &lzmaCompressor{name: NameLZMA, xz: true}
}

// NewLZMA returns an LZMA compressor that writes the classic .lzma container.
func NewLZMA() Compressor {
	return &lzmaCompressor{name: NameLZMAAlone}
}

func (c *lzmaCompressor) Name() string { return c.name }

// CompressedLen creates a fresh encoder per call; the xz writers carry no
// reusable state.
func (c *lzmaCompressor) CompressedLen(data []byte) (int, error) {
	var cw countingWriter

	var (
		w interface {
			Write([]byte) (int, error)
			Close() error
		}
		err error
	)
	if c.xz {
		w, err = xz.NewWriter(&cw)
	} else {
		w, err = lzma.NewWriter(&cw)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: create encoder: %w", c.name, err)
	}
	if _, err := w.Write(data); err != nil {
		return 0, fmt.Errorf("%s: compress %d bytes: %w", c.name, len(data), err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("%s: flush: %w", c.name, err)
	}
	return cw.n, nil
}
