package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AdrienCambier1/ng-music-platform/internal/storage"
)

type doc struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	in := []doc{{ID: "a", Qty: 2}, {ID: "b", Qty: 1}}
	require.NoError(t, storage.SaveJSON(ctx, s, storage.KeyCart, in))

	out := storage.LoadJSON[doc](ctx, s, storage.KeyCart, zap.NewNop())
	assert.Equal(t, in, out)
}

func TestFileStoreEmptyCollectionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, storage.SaveJSON(ctx, s, storage.KeyFavorites, []doc{}))

	data, ok, err := s.Load(ctx, storage.KeyFavorites)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, "[]", string(data))
	assert.Empty(t, storage.LoadJSON[doc](ctx, s, storage.KeyFavorites, zap.NewNop()))
}

func TestFileStoreAbsentKeyLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := s.Load(ctx, "never-written")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, storage.LoadJSON[doc](ctx, s, "never-written", zap.NewNop()))
}

func TestCorruptPayloadDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, storage.KeyCart+".json"), []byte("{not json"), 0o644))

	assert.Nil(t, storage.LoadJSON[doc](ctx, s, storage.KeyCart, zap.NewNop()),
		"corruption must degrade to empty, never fail startup")
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, storage.SaveJSON(ctx, s, storage.KeyCart, []doc{{ID: "a", Qty: 1}}))
	require.NoError(t, storage.SaveJSON(ctx, s, storage.KeyCart, []doc{{ID: "b", Qty: 9}}))

	out := storage.LoadJSON[doc](ctx, s, storage.KeyCart, zap.NewNop())
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].ID)
}

func TestMemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemStore()

	in := []doc{{ID: "a", Qty: 3}}
	require.NoError(t, storage.SaveJSON(ctx, s, storage.KeyProducts, in))
	assert.Equal(t, in, storage.LoadJSON[doc](ctx, s, storage.KeyProducts, zap.NewNop()))
}
