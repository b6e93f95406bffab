package storage

import (
	"context"

	"github.com/poiesic/videograph/core"
)

// ManifestRepository is the append-only arena for manifest versions.
// Every successful pipeline step appends a new version; versions are never
// rewritten, which is what makes retry and audit trails safe.
type ManifestRepository interface {
	// AppendManifest stores a new manifest version for its job and returns
	// the assigned version number (starting at 1).
	AppendManifest(ctx context.Context, m *core.Manifest) (uint64, error)

	// GetManifest retrieves a specific manifest version for a job.
	// Returns ErrNotFound if the version doesn't exist.
	GetManifest(ctx context.Context, jobID string, version uint64) (*core.Manifest, error)

	// LatestManifest retrieves the most recent manifest version for a job.
	// Returns ErrNotFound if the job has no versions.
	LatestManifest(ctx context.Context, jobID string) (*core.Manifest, uint64, error)

	// ListManifestVersions returns the version numbers stored for a job,
	// oldest first. A job with no versions yields an empty slice.
	ListManifestVersions(ctx context.Context, jobID string) ([]uint64, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// GraphRepository stores built topic graphs by video and graph version.
// Graph versions are immutable: edits fork a new version rather than
// rewriting an existing one.
type GraphRepository interface {
	// PutGraph stores a graph under its video id and version.
	// Returns an error if that version already exists.
	PutGraph(ctx context.Context, g *core.Graph) error

	// GetGraph retrieves a graph by video id and version.
	// Returns ErrNotFound if it doesn't exist.
	GetGraph(ctx context.Context, videoID, version string) (*core.Graph, error)

	// ListGraphVersions returns all graph versions stored for a video,
	// oldest first.
	ListGraphVersions(ctx context.Context, videoID string) ([]string, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
