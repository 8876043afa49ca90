package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("hello")
	require.NoError(t, store.Put(ctx, "b/1", data))
	data[0] = 'j'

	w, err := store.Create(ctx, "a/1")
	require.NoError(t, err)
	_, err = w.Write([]byte("streamed"))
	require.NoError(t, err)
	_, err = store.Open(ctx, "a/1")
	require.ErrorIs(t, err, ErrNotFound, "not visible before Close")
	require.NoError(t, w.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/1", "b/1"}, names)

	names, err = store.List(ctx, "b/")
	require.NoError(t, err)
	assert.Equal(t, []string{"b/1"}, names)

	blob, err := store.Open(ctx, "b/1")
	require.NoError(t, err)
	defer blob.Close()
	assert.Equal(t, int64(5), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf), "Put must copy its input")

	r, err := blob.ReadRange(ctx, 3, 10)
	require.NoError(t, err)
	tail, _ := io.ReadAll(r)
	assert.Equal(t, "lo", string(tail))

	_, err = blob.ReadRange(ctx, 5, 1)
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, store.Delete(ctx, "b/1"))
	_, err = store.Open(ctx, "b/1")
	assert.ErrorIs(t, err, ErrNotFound)
}
