// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/storage"
)

// ManifestRepository implements storage.ManifestRepository on BadgerDB.
// Manifest versions are append-only: each write assigns the next version
// number for the job and existing versions are never touched.
type ManifestRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.ManifestRepository = (*ManifestRepository)(nil)

// NewManifestRepository creates a manifest repository on the given backend.
//
// Returns the storage.ManifestRepository interface to enforce abstraction.
func NewManifestRepository(backend *Backend) (storage.ManifestRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &ManifestRepository{
		backend: backend,
		logger:  slog.Default().With("component", "manifest-repository"),
	}, nil
}

// AppendManifest stores a new manifest version and returns its number.
func (r *ManifestRepository) AppendManifest(ctx context.Context, m *core.Manifest) (uint64, error) {
	if err := core.ValidateManifest(m); err != nil {
		return 0, err
	}
	if m.JobID == "" {
		return 0, fmt.Errorf("%w: manifest has no job id", core.ErrInvalidManifest)
	}

	data, err := json.Marshal(m)
	if err != nil {
		return 0, fmt.Errorf("marshal manifest: %w", err)
	}

	var version uint64
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		latestKey := makeManifestLatestKey(m.JobID)

		version = 1
		item, err := tx.Get(latestKey)
		switch {
		case err == nil:
			err = item.Value(func(val []byte) error {
				if len(val) == 8 {
					version = binary.BigEndian.Uint64(val) + 1
				}
				return nil
			})
			if err != nil {
				return err
			}
		case errors.Is(err, badger.ErrKeyNotFound):
			// First version for this job
		default:
			return err
		}

		if err := tx.Set(makeManifestKey(m.JobID, version), data); err != nil {
			return err
		}

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, version)
		if err := tx.Set(latestKey, buf); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}

	r.logger.Debug("appended manifest version", "job", m.JobID, "version", version)
	return version, nil
}

// GetManifest retrieves a specific manifest version for a job.
func (r *ManifestRepository) GetManifest(ctx context.Context, jobID string, version uint64) (*core.Manifest, error) {
	var manifest *core.Manifest

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeManifestKey(jobID, version))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var m core.Manifest
			if err := json.Unmarshal(val, &m); err != nil {
				return err
			}
			manifest = &m
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	return manifest, nil
}

// LatestManifest retrieves the most recent manifest version for a job.
func (r *ManifestRepository) LatestManifest(ctx context.Context, jobID string) (*core.Manifest, uint64, error) {
	var version uint64

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeManifestLatestKey(jobID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt latest-version marker for job %s", jobID)
			}
			version = binary.BigEndian.Uint64(val)
			return nil
		})
	}, false)
	if err != nil {
		return nil, 0, err
	}

	manifest, err := r.GetManifest(ctx, jobID, version)
	if err != nil {
		return nil, 0, err
	}
	return manifest, version, nil
}

// ListManifestVersions returns the version numbers stored for a job, oldest
// first. Version keys are BigEndian-encoded, so key order is version order.
func (r *ManifestRepository) ListManifestVersions(ctx context.Context, jobID string) ([]uint64, error) {
	prefix := makeManifestPrefix(jobID)
	var versions []uint64

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			suffix := key[len(prefix):]
			if len(suffix) != 8 {
				return fmt.Errorf("corrupt manifest version key %q", key)
			}
			versions = append(versions, binary.BigEndian.Uint64(suffix))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return versions, nil
}

// Close releases repository resources. The shared backend is closed by its owner.
func (r *ManifestRepository) Close() error {
	return nil
}
