package compressor

import (
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Registry names of the DEFLATE family.
const (
	NameGzip    = "gzip"
	NameZlib    = "zlib"
	NameDeflate = "deflate"
)

// NewGzip returns a gzip compressor at the given level (1-9).
// Level 9 matches the defaults of the reference experiments.
func NewGzip(level int) Compressor {
	return &streamCompressor{
		name: NameGzip,
		newWriter: func(w io.Writer) (resetWriter, error) {
			zw, err := gzip.NewWriterLevel(w, level)
			if err != nil {
				return nil, err
			}
			return resetAdapter[*gzip.Writer]{zw: zw}, nil
		},
	}
}

// NewZlib returns a zlib compressor at the given level (1-9).
func NewZlib(level int) Compressor {
	return &streamCompressor{
		name: NameZlib,
		newWriter: func(w io.Writer) (resetWriter, error) {
			zw, err := zlib.NewWriterLevel(w, level)
			if err != nil {
				return nil, err
			}
			return resetAdapter[*zlib.Writer]{zw: zw}, nil
		},
	}
}

// NewDeflate returns a raw DEFLATE compressor at the given level (1-9).
func NewDeflate(level int) Compressor {
	return &streamCompressor{
		name: NameDeflate,
		newWriter: func(w io.Writer) (resetWriter, error) {
			zw, err := flate.NewWriter(w, level)
			if err != nil {
				return nil, err
			}
			return resetAdapter[*flate.Writer]{zw: zw}, nil
		},
	}
}
