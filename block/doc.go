// Package block persists distance matrix row blocks and scores them.
//
// A block holds the distances of a contiguous range of test items
// [Start, End) to every train item. Blocks are stored as float64 .npy
// arrays under "{compressor}/test_dis_idx_from_{start}_to_{end}.npy" in a
// blobstore.BlobStore, so a long distance run can be split across
// processes, resumed after interruption and scored later with any k.
//
//	store := block.NewStore(blobs, "gzip")
//	rec := block.NewRecorder(store, builder, func(o *block.RecorderOptions) {
//	    o.BlockSize = 100
//	})
//	summary, err := rec.Record(ctx, testItems, trainItems, 0)
//
//	score, err := block.Evaluate(ctx, store, testLabels, trainLabels, 2)
package block
