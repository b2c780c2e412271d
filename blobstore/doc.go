// Package blobstore provides storage for persisted distance blocks.
//
// BlobStore is the interface for reading and writing immutable blobs
// addressed by slash-separated names such as "gzip/test_dis_idx_from_0_to_100.npy".
// Implementations must be safe for concurrent use and must make Put
// atomic: a reader either sees the complete blob or none at all.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, temp file plus rename
//   - MemoryStore: in-process map, for tests
//   - minio.Store: MinIO and S3-compatible storage
//   - s3.Store: Amazon S3 with multipart uploads
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
