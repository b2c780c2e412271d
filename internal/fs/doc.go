// Package fs provides the filesystem seam used by blobstore.LocalStore.
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test wrapper that injects write, sync, close and rename
//     failures to simulate interrupted block writes
//
// Tests inject FaultyFS to check that a failed write never leaves a
// partially written blob visible:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".npy", fs.Fault{FailAfterBytes: 64})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
package fs
