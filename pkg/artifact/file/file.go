// Package file provides a filesystem-backed implementation of the artifact
// store, mirroring the path layout an object storage bucket would use.
package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/liftlab/liftwire/pkg/artifact"
)

// Store keeps blobs as plain files under a root directory. Content types are
// accepted for interface parity and ignored; the filesystem has no metadata
// channel for them.
type Store struct {
	root string
}

// NewStore creates a store rooted at the given directory, creating it if
// necessary. A "file://" scheme prefix is accepted and stripped.
func NewStore(root string) (*Store, error) {
	cleanRoot := strings.TrimPrefix(root, "file://")

	if err := os.MkdirAll(cleanRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact root %s: %w", cleanRoot, err)
	}

	return &Store{root: cleanRoot}, nil
}

func (s *Store) Put(_ context.Context, path string, data []byte, _ string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}

	return nil
}

func (s *Store) Get(_ context.Context, path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", artifact.ErrNotFound, path)
		}

		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	return data, nil
}

func (s *Store) List(_ context.Context, prefix string) ([]artifact.Entry, error) {
	entries := make([]artifact.Entry, 0)

	root := os.DirFS(s.root)

	err := fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasPrefix(path, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		entries = append(entries, artifact.Entry{
			Path:      path,
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts under %s: %w", prefix, err)
	}

	return entries, nil
}

func (s *Store) Copy(ctx context.Context, src, dst string) error {
	data, err := s.Get(ctx, src)
	if err != nil {
		return err
	}

	return s.Put(ctx, dst, data, "")
}

func (s *Store) Exists(_ context.Context, path string) (bool, error) {
	full, err := s.resolve(path)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("failed to stat artifact %s: %w", path, err)
	}

	return true, nil
}

// resolve maps a logical path onto the root, rejecting escapes.
func (s *Store) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	if clean == "/" {
		return "", fmt.Errorf("empty artifact path")
	}

	return filepath.Join(s.root, clean), nil
}
