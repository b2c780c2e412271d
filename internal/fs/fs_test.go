package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	require.NoError(t, lfs.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "block.npy")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	require.NoError(t, f.Close())

	entries, err := lfs.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	newPath := filepath.Join(dir, "renamed.npy")
	require.NoError(t, lfs.Rename(fpath, newPath))
	_, err = lfs.Stat(fpath)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, lfs.Remove(newPath))
}

func TestFaultyFSWriteLimit(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("torn", Fault{FailAfterBytes: 3})

	f, err := ffs.OpenFile(filepath.Join(tmp, "torn.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)

	n, err := f.Write([]byte("hello"))
	assert.Equal(t, 3, n)
	assert.True(t, errors.Is(err, ErrInjected))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filepath.Join(tmp, "torn.bin"))
	require.NoError(t, err)
	assert.Equal(t, "hel", string(data))

	// Files not matching a rule are untouched.
	g, err := ffs.OpenFile(filepath.Join(tmp, "ok.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = g.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, g.Close())
}

func TestFaultyFSSyncCloseRename(t *testing.T) {
	tmp := t.TempDir()
	custom := errors.New("disk gone")
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("sync", Fault{FailAfterBytes: -1, FailOnSync: true, Err: custom})
	ffs.AddRule("close", Fault{FailAfterBytes: -1, FailOnClose: true})
	ffs.AddRule("final", Fault{FailAfterBytes: -1, FailOnRename: true})

	f, err := ffs.OpenFile(filepath.Join(tmp, "sync.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), custom)
	require.NoError(t, f.Close())

	g, err := ffs.OpenFile(filepath.Join(tmp, "close.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	assert.ErrorIs(t, g.Close(), ErrInjected)

	src := filepath.Join(tmp, "sync.bin")
	assert.ErrorIs(t, ffs.Rename(src, filepath.Join(tmp, "final.bin")), ErrInjected)

	ffs.ClearRules()
	assert.NoError(t, ffs.Rename(src, filepath.Join(tmp, "final.bin")))
}
