package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/storage"
)

// GraphRepository implements storage.GraphRepository on BadgerDB.
type GraphRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.GraphRepository = (*GraphRepository)(nil)

// NewGraphRepository creates a graph repository on the given backend.
//
// Returns the storage.GraphRepository interface to enforce abstraction.
func NewGraphRepository(backend *Backend) (storage.GraphRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &GraphRepository{
		backend: backend,
		logger:  slog.Default().With("component", "graph-repository"),
	}, nil
}

// PutGraph stores a graph under its video id and version.
// Graph versions are immutable; writing an existing version is an error.
func (r *GraphRepository) PutGraph(ctx context.Context, g *core.Graph) error {
	if g == nil || g.VideoID == "" || g.Version == "" {
		return errors.New("graph requires video id and version")
	}

	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}

	key := makeGraphKey(g.VideoID, g.Version)
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		switch {
		case err == nil:
			return fmt.Errorf("graph version %s already exists for video %s", g.Version, g.VideoID)
		case errors.Is(err, badger.ErrKeyNotFound):
		default:
			return err
		}

		if err := tx.Set(key, data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	r.logger.Debug("stored graph version", "video", g.VideoID, "version", g.Version,
		"nodes", g.Metrics.NodeCount, "edges", g.Metrics.EdgeCount)
	return nil
}

// GetGraph retrieves a graph by video id and version.
func (r *GraphRepository) GetGraph(ctx context.Context, videoID, version string) (*core.Graph, error) {
	var graph *core.Graph

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeGraphKey(videoID, version))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var g core.Graph
			if err := json.Unmarshal(val, &g); err != nil {
				return err
			}
			graph = &g
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	return graph, nil
}

// ListGraphVersions returns all graph versions stored for a video, oldest
// first. Versions are ULIDs, so lexicographic key order is creation order.
func (r *GraphRepository) ListGraphVersions(ctx context.Context, videoID string) ([]string, error) {
	prefix := makeGraphPrefix(videoID)
	var versions []string

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := string(iter.Item().Key())
			versions = append(versions, strings.TrimPrefix(key, string(prefix)))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return versions, nil
}

// Close releases repository resources. The shared backend is closed by its owner.
func (r *GraphRepository) Close() error {
	return nil
}
