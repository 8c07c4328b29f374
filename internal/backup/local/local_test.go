package local

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/sitelog/internal/backup"
)

func TestPutGetList(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "b.json", bytes.NewReader([]byte(`{"b":1}`))))
	require.NoError(t, store.Put(ctx, "a.json", bytes.NewReader([]byte(`{"a":1}`))))

	rc, err := store.Get(ctx, "a.json")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, `{"a":1}`, string(data))

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a.json", infos[0].Key)
	assert.Equal(t, int64(7), infos[0].Size)
	assert.Equal(t, "b.json", infos[1].Key)
}

func TestPutReplaces(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a.json", bytes.NewReader([]byte("first"))))
	require.NoError(t, store.Put(ctx, "a.json", bytes.NewReader([]byte("second"))))

	rc, err := store.Get(ctx, "a.json")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestGetAndDeleteMissing(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, "nope.json")
	assert.ErrorIs(t, err, backup.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "nope.json"), backup.ErrNotFound)
}

func TestDelete(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a.json", bytes.NewReader([]byte("x"))))
	require.NoError(t, store.Delete(ctx, "a.json"))

	infos, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestPathTraversalRejected(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"../escape.json", "../../etc/passwd", ""} {
		_, err := store.Get(ctx, key)
		assert.Error(t, err, key)
		assert.Error(t, store.Put(ctx, key, bytes.NewReader(nil)), key)
		assert.Error(t, store.Delete(ctx, key), key)
	}
}
