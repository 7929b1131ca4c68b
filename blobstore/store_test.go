package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the BlobStore behavior every implementation
// must provide.
func runStoreContract(t *testing.T, newStore func(t *testing.T) BlobStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("PutOpenRead", func(t *testing.T) {
		store := newStore(t)
		data := []byte("hello blob world")

		require.NoError(t, store.Put(ctx, "snap.dai", data))

		blob, err := store.Open(ctx, "snap.dai")
		require.NoError(t, err)
		defer blob.Close()

		assert.Equal(t, int64(len(data)), blob.Size())

		got, err := ReadAll(ctx, blob)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("ReadAtPartial", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "blob", []byte("0123456789")))

		blob, err := store.Open(ctx, "blob")
		require.NoError(t, err)
		defer blob.Close()

		p := make([]byte, 4)
		n, err := blob.ReadAt(ctx, p, 3)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, "3456", string(p))

		// Reading past the end returns io.EOF with the bytes that exist.
		n, err = blob.ReadAt(ctx, p, 8)
		assert.Equal(t, 2, n)
		assert.ErrorIs(t, err, io.EOF)

		_, err = blob.ReadAt(ctx, p, 100)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("ReadRange", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "blob", []byte("0123456789")))

		blob, err := store.Open(ctx, "blob")
		require.NoError(t, err)
		defer blob.Close()

		rc, err := blob.ReadRange(ctx, 2, 5)
		require.NoError(t, err)
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "23456", string(got))

		// Ranges are clamped to the blob size.
		rc, err = blob.ReadRange(ctx, 8, 100)
		require.NoError(t, err)
		got, err = io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "89", string(got))

		rc, err = blob.ReadRange(ctx, 100, 5)
		require.NoError(t, err)
		got, err = io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Empty(t, got)
	})

	t.Run("OpenMissing", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Open(ctx, "no-such-blob")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("CreateStreams", func(t *testing.T) {
		store := newStore(t)

		wb, err := store.Create(ctx, "streamed")
		require.NoError(t, err)

		_, err = wb.Write([]byte("part one, "))
		require.NoError(t, err)
		_, err = wb.Write([]byte("part two"))
		require.NoError(t, err)
		require.NoError(t, wb.Close())

		blob, err := store.Open(ctx, "streamed")
		require.NoError(t, err)
		defer blob.Close()

		got, err := ReadAll(ctx, blob)
		require.NoError(t, err)
		assert.Equal(t, "part one, part two", string(got))
	})

	t.Run("PutOverwrites", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Put(ctx, "blob", []byte("old")))
		require.NoError(t, store.Put(ctx, "blob", []byte("new content")))

		blob, err := store.Open(ctx, "blob")
		require.NoError(t, err)
		defer blob.Close()

		got, err := ReadAll(ctx, blob)
		require.NoError(t, err)
		assert.Equal(t, "new content", string(got))
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "blob", []byte("data")))

		require.NoError(t, store.Delete(ctx, "blob"))

		_, err := store.Open(ctx, "blob")
		assert.ErrorIs(t, err, ErrNotFound)

		// Deleting a missing blob is not an error.
		require.NoError(t, store.Delete(ctx, "blob"))
	})

	t.Run("List", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "snapshots/a.dai", []byte("a")))
		require.NoError(t, store.Put(ctx, "snapshots/b.dai", []byte("b")))
		require.NoError(t, store.Put(ctx, "other/c.dai", []byte("c")))

		names, err := store.List(ctx, "snapshots/")
		require.NoError(t, err)
		assert.Equal(t, []string{"snapshots/a.dai", "snapshots/b.dai"}, names)

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"other/c.dai", "snapshots/a.dai", "snapshots/b.dai"}, all)
	})

	t.Run("ListEmpty", func(t *testing.T) {
		store := newStore(t)

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("AbortDoesNotCommit", func(t *testing.T) {
		store := newStore(t)

		wb, err := store.Create(ctx, "aborted")
		require.NoError(t, err)

		_, err = wb.Write([]byte("partial"))
		require.NoError(t, err)

		aborter, ok := wb.(Aborter)
		require.True(t, ok)
		require.NoError(t, aborter.Abort())

		_, err = store.Open(ctx, "aborted")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) BlobStore {
		return NewMemoryStore()
	})
}

func TestLocalStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) BlobStore {
		return NewLocalStore(t.TempDir())
	})
}

func TestMemoryStoreOpenIsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "blob", []byte("before")))

	blob, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	defer blob.Close()

	require.NoError(t, store.Put(ctx, "blob", []byte("after!")))

	got, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, "before", string(got))
}
