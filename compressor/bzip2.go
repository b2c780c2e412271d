package compressor

import (
	"io"

	"github.com/dsnet/compress/bzip2"
)

// NameBzip2 is the registry name of the bzip2 compressor.
const NameBzip2 = "bz2"

// NewBzip2 returns a bzip2 (Burrows-Wheeler) compressor at the given level (1-9).
func NewBzip2(level int) Compressor {
	return &streamCompressor{
		name: NameBzip2,
		newWriter: func(w io.Writer) (resetWriter, error) {
			return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: level})
		},
	}
}
