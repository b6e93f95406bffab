package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/videograph/storage"
)

// Store implements storage.ObjectStore on the local filesystem.
// Object paths map directly to files under the root directory.
type Store struct {
	root string
}

var _ storage.ObjectStore = (*Store)(nil)

// NewStore creates a filesystem store rooted at the given directory,
// creating it if necessary.
func NewStore(root string) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(root, 0o755); err != nil {
				return nil, err
			}
			return &Store{root: root}, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	return &Store{root: root}, nil
}

func (s *Store) file(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

// Read returns the contents of the object at path.
func (s *Store) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(s.file(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Write stores data at path. The write goes through a temp file and rename
// so a crashed writer never leaves a half-written artifact behind.
func (s *Store) Write(ctx context.Context, path string, data []byte) error {
	target := s.file(path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, target)
}

// Exists reports whether an object is present at path.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(s.file(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes the object at path. Missing objects are not an error.
func (s *Store) Delete(ctx context.Context, path string) error {
	err := os.Remove(s.file(path))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the paths of all objects under the given prefix, sorted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}

		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			paths = append(paths, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// URL returns a file:// URL for the object. The ttl is ignored; local files
// do not expire.
func (s *Store) URL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	ok, err := s.Exists(ctx, path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", storage.ErrNotFound
	}

	abs, err := filepath.Abs(s.file(path))
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}
