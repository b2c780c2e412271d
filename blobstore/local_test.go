package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hupe1980/ncdgo/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	name := "gzip/test_dis_idx_from_0_to_2.npy"
	data := []byte("hello world, this is a test blob")

	require.NoError(t, store.Put(ctx, name, data))

	_, err := os.Stat(filepath.Join(tmpDir, "gzip", "test_dis_idx_from_0_to_2.npy"))
	require.NoError(t, err)

	blob, err := store.Open(ctx, name)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	got, err := ReadAll(ctx, store, name)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	ok, err := Exists(ctx, store, name)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, name))
	ok, err = Exists(ctx, store, name)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting twice is fine.
	require.NoError(t, store.Delete(ctx, name))
}

func TestLocalStore_OpenMissing(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	_, err := store.Open(context.Background(), "nope.npy")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_List(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{
		"gzip/test_dis_idx_from_100_to_200.npy",
		"gzip/test_dis_idx_from_0_to_100.npy",
		"zstd/test_dis_idx_from_0_to_100.npy",
		"top.txt",
	} {
		require.NoError(t, store.Put(ctx, name, []byte("x")))
	}

	names, err := store.List(ctx, "gzip/")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"gzip/test_dis_idx_from_0_to_100.npy",
		"gzip/test_dis_idx_from_100_to_200.npy",
	}, names)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := NewLocalStore(filepath.Join(t.TempDir(), "missing")).List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLocalStore_InterruptedWrite(t *testing.T) {
	tests := []struct {
		name  string
		fault fs.Fault
	}{
		{"torn write", fs.Fault{FailAfterBytes: 4}},
		{"sync", fs.Fault{FailAfterBytes: -1, FailOnSync: true}},
		{"close", fs.Fault{FailAfterBytes: -1, FailOnClose: true}},
		{"rename", fs.Fault{FailAfterBytes: -1, FailOnRename: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			ffs := fs.NewFaultyFS(nil)
			ffs.AddRule("block.npy", tt.fault)
			store := NewLocalStore(dir, WithFileSystem(ffs))
			ctx := context.Background()

			err := store.Put(ctx, "gzip/block.npy", []byte("0123456789"))
			require.ErrorIs(t, err, fs.ErrInjected)

			ok, err := Exists(ctx, store, "gzip/block.npy")
			require.NoError(t, err)
			assert.False(t, ok, "no partial blob visible under the final name")

			names, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Empty(t, names)

			entries, err := os.ReadDir(filepath.Join(dir, "gzip"))
			require.NoError(t, err)
			assert.Empty(t, entries, "temp file removed")
		})
	}
}

func TestLocalStore_ConcurrentPutSameName(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)
	ctx := context.Background()

	data := bytes.Repeat([]byte("0123456789abcdef"), 64*1024)
	const writers = 16

	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = store.Put(ctx, "gzip/test_dis_idx_from_0_to_100.npy", data)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "writer %d", i)
	}

	got, err := ReadAll(ctx, store, "gzip/test_dis_idx_from_0_to_100.npy")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	entries, err := os.ReadDir(filepath.Join(dir, "gzip"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	info, err := os.Stat(filepath.Join(dir, "gzip", "test_dis_idx_from_0_to_100.npy"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestLocalStore_ListSkipsTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "gzip/a.npy", []byte("a")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gzip", "b.npy.123456"+tempSuffix), []byte("b"), 0o644))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"gzip/a.npy"}, names)
}

func TestLocalStore_CanceledPut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewLocalStore(t.TempDir()).Put(ctx, "a", []byte("a"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBytesBlob(t *testing.T) {
	ctx := context.Background()
	b := NewBytesBlob([]byte("abc"))

	buf := make([]byte, 4)
	n, err := b.ReadAt(ctx, buf, 1)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)

	n, err = b.ReadAt(ctx, buf, 3)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)
}
