// Package ncdgo classifies text with compression distances and k nearest
// neighbours.
//
// Two items are similar when compressing them together costs little more
// than compressing the larger one alone. ncdgo measures compressed lengths
// with a pluggable compressor, turns them into a distance (NCD, CLM or CDM),
// builds the test x train distance matrix in parallel and predicts each
// test label by majority vote over its k nearest train items.
//
// # Quick Start
//
//	exp, _ := ncdgo.New[int](
//	    ncdgo.WithCompressor(compressor.NewGzip(9)),
//	    ncdgo.WithWorkers(8),
//	)
//	res, _ := exp.Run(ctx, train, test, 2)
//	fmt.Println(res.Record()) // gzip,0.87,12.4
//
// # Persisted Blocks
//
// Long runs can be split into blocks of test rows that are persisted to a
// blobstore as .npy files, resumed after interruption, shared by several
// workers through a claimer and scored later for any k:
//
//	store := blobstore.NewLocalStore("./distances")
//	exp, _ := ncdgo.New[int](ncdgo.WithBlockStore(store), ncdgo.WithBlockSize(100))
//	summary, _ := exp.Record(ctx, train, test, 0)
//	score, _ := exp.Score(ctx, train.Labels, test.Labels, 2, false)
//
// # Compressors
//
// gzip, zlib, deflate, zstd, s2, snappy, lz4, lz4-block, bz2, lzma and
// lzma-alone are built in; see package compressor to register more.
package ncdgo
