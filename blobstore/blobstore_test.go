package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)
	ctx := context.Background()

	data := []byte("a toy graph container, pretend this is CSR bytes")
	require.NoError(t, store.Put(ctx, "graph-001.gr", data))

	// file landed on disk, no temp litter
	_, err := os.Stat(filepath.Join(dir, "graph-001.gr"))
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	blob, err := store.Open(ctx, "graph-001.gr")
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 3)
	n, err := blob.ReadAt(buf, 2)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "toy", string(buf))

	all, err := io.ReadAll(io.NewSectionReader(blob, 0, blob.Size()))
	require.NoError(t, err)
	require.Equal(t, data, all)
}

func TestLocalStore_OpenMissing(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	_, err := store.Open(context.Background(), "nope.gr")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_PutOverwrites(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "g.gr", []byte("v1")))
	require.NoError(t, store.Put(ctx, "g.gr", []byte("version-2")))

	blob, err := store.Open(ctx, "g.gr")
	require.NoError(t, err)
	defer blob.Close()
	require.Equal(t, int64(9), blob.Size())
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Open(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	data := []byte{1, 2, 3, 4}
	require.NoError(t, store.Put(ctx, "g", data))

	blob, err := store.Open(ctx, "g")
	require.NoError(t, err)
	require.Equal(t, int64(4), blob.Size())

	// mutating the original must not affect the open handle
	data[0] = 99
	buf := make([]byte, 4)
	_, err = blob.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, buf)

	fetched, err := store.Fetch(ctx, "g")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, fetched)

	_, err = store.Fetch(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
