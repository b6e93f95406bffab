package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/videograph/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestNewStoreCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewStore(root)
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStoreRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := NewStore(path)
	assert.Error(t, err)
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "videos/v1/audio/a.wav", []byte("data")))

	got, err := s.Read(ctx, "videos/v1/audio/a.wav")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	ok, err := s.Exists(ctx, "videos/v1/audio/a.wav")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "videos/v1/audio/a.wav"))
	_, err = s.Read(ctx, "videos/v1/audio/a.wav")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	assert.NoError(t, newTestStore(t).Delete(context.Background(), "missing"))
}

func TestWriteOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "a", []byte("one")))
	require.NoError(t, s.Write(ctx, "a", []byte("two")))

	got, err := s.Read(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}

func TestListFiltersByPrefix(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "videos/v1/graph/g.json", nil))
	require.NoError(t, s.Write(ctx, "videos/v1/audio/a.wav", nil))
	require.NoError(t, s.Write(ctx, "videos/v2/audio/a.wav", nil))

	paths, err := s.List(ctx, "videos/v1/")
	require.NoError(t, err)
	assert.Equal(t, []string{"videos/v1/audio/a.wav", "videos/v1/graph/g.json"}, paths)
}

func TestURL(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "a/b", []byte("data")))

	url, err := s.URL(ctx, "a/b", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"))
	assert.True(t, strings.HasSuffix(url, "/a/b"))

	_, err = s.URL(ctx, "missing", time.Minute)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
