package storage

import (
	"context"
	"time"
)

// ObjectStore is the byte-level storage port every pipeline step writes
// through. Implementations must be thread-safe and make Write idempotent:
// writing the same path twice (as a retried step will) replaces the object
// without error.
type ObjectStore interface {
	// Read returns the full contents of the object at path.
	// Returns ErrNotFound if the object does not exist.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write stores data at path, replacing any existing object.
	Write(ctx context.Context, path string, data []byte) error

	// Exists reports whether an object is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes the object at path. Deleting a missing object is not
	// an error.
	Delete(ctx context.Context, path string) error

	// List returns the paths of all objects under the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// URL returns an externally fetchable URL for the object, valid for at
	// least ttl. Backends without URL support return ErrURLUnsupported.
	URL(ctx context.Context, path string, ttl time.Duration) (string, error)
}
