package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/storage"
)

func newTestManifestRepo(t *testing.T) storage.ManifestRepository {
	t.Helper()
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	repo, err := NewManifestRepository(backend)
	require.NoError(t, err)
	return repo
}

func TestAppendManifest_VersionsAreMonotonic(t *testing.T) {
	repo := newTestManifestRepo(t)
	ctx := context.Background()
	manifest := core.NewManifest("vid-1", config.Default())

	v1, err := repo.AppendManifest(ctx, manifest)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v1)

	v2, err := repo.AppendManifest(ctx, manifest.WithCompleted("video"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v2)

	v3, err := repo.AppendManifest(ctx, manifest.WithCompleted("transcribe"))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v3)
}

func TestAppendManifest_JobsAreIndependent(t *testing.T) {
	repo := newTestManifestRepo(t)
	ctx := context.Background()

	v, err := repo.AppendManifest(ctx, core.NewManifest("vid-1", config.Default()))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	// A different job starts its own version sequence.
	v, err = repo.AppendManifest(ctx, core.NewManifest("vid-2", config.Default()))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}

func TestAppendManifest_RejectsInvalid(t *testing.T) {
	repo := newTestManifestRepo(t)

	_, err := repo.AppendManifest(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrInvalidManifest)

	manifest := core.NewManifest("vid-1", config.Default())
	manifest.JobID = ""
	_, err = repo.AppendManifest(context.Background(), manifest)
	assert.ErrorIs(t, err, core.ErrInvalidManifest)
}

func TestGetManifest_RetrievesExactVersion(t *testing.T) {
	repo := newTestManifestRepo(t)
	ctx := context.Background()

	first := core.NewManifest("vid-1", config.Default())
	_, err := repo.AppendManifest(ctx, first)
	require.NoError(t, err)

	second := first.WithCompleted("video")
	_, err = repo.AppendManifest(ctx, second)
	require.NoError(t, err)

	got, err := repo.GetManifest(ctx, first.JobID, 1)
	require.NoError(t, err)
	assert.Empty(t, got.CompletedSteps)

	got, err = repo.GetManifest(ctx, first.JobID, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"video"}, got.CompletedSteps)
}

func TestGetManifest_NotFound(t *testing.T) {
	repo := newTestManifestRepo(t)

	_, err := repo.GetManifest(context.Background(), "no-such-job", 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLatestManifest(t *testing.T) {
	repo := newTestManifestRepo(t)
	ctx := context.Background()

	manifest := core.NewManifest("vid-1", config.Default())
	_, err := repo.AppendManifest(ctx, manifest)
	require.NoError(t, err)
	_, err = repo.AppendManifest(ctx, manifest.WithCompleted("video"))
	require.NoError(t, err)

	got, version, err := repo.LatestManifest(ctx, manifest.JobID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), version)
	assert.Equal(t, []string{"video"}, got.CompletedSteps)
}

func TestListManifestVersions(t *testing.T) {
	repo := newTestManifestRepo(t)
	ctx := context.Background()

	manifest := core.NewManifest("vid-1", config.Default())
	_, err := repo.AppendManifest(ctx, manifest)
	require.NoError(t, err)
	_, err = repo.AppendManifest(ctx, manifest.WithCompleted("video"))
	require.NoError(t, err)
	_, err = repo.AppendManifest(ctx, manifest.WithCompleted("transcribe"))
	require.NoError(t, err)

	// Another job's versions must not leak into the listing.
	_, err = repo.AppendManifest(ctx, core.NewManifest("vid-2", config.Default()))
	require.NoError(t, err)

	versions, err := repo.ListManifestVersions(ctx, manifest.JobID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, versions)

	versions, err = repo.ListManifestVersions(ctx, "no-such-job")
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestLatestManifest_NotFound(t *testing.T) {
	repo := newTestManifestRepo(t)

	_, _, err := repo.LatestManifest(context.Background(), "no-such-job")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
