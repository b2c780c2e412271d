// Package compressor measures compressed lengths with pluggable compressors.
//
// A Compressor is a black box: it reports how many bytes a blob occupies
// after compression. The Provider combines a Compressor with an aggregation
// policy to expose the two lengths a compression distance needs.
//
// # Built-in Compressors
//
//   - gzip, zlib, deflate: DEFLATE family (klauspost/compress)
//   - zstd, s2, snappy: LZ77 family (klauspost/compress)
//   - lz4, lz4-block: LZ4 frame and block formats (pierrec/lz4)
//   - bz2: Burrows-Wheeler block sorting (dsnet/compress)
//   - lzma, lzma-alone: LZMA range coder in xz or classic container (ulikunitz/xz)
//
// # Usage
//
//	c, _ := compressor.ByName("gzip")
//	p := compressor.NewProvider(c, aggregate.ConcatSpace)
//	la, _ := p.Length(a)
//	lab, _ := p.CombinedLength(a, b)
//
// Compressors keep their encoder state in pools; an encoder is owned by one
// goroutine for the duration of a single call, so a Compressor value is safe
// for concurrent use.
package compressor
