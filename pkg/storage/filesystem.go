package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidPath is returned for names that are empty, absolute or escape the
// storage root.
var ErrInvalidPath = errors.New("storage: invalid path")

const partialSuffix = ".partial"

// LocalStorage keeps generated ledger files on disk under a root directory.
// Files appear atomically: Save writes to a temporary name and renames it.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates root if needed.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if root == "" {
		root = "./exports"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStorage{root: abs}, nil
}

// Save stores data under name and returns name.
func (s *LocalStorage) Save(name string, data []byte) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare %s: %w", name, err)
	}
	tmp := path + partialSuffix
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("commit %s: %w", name, err)
	}
	return name, nil
}

// Open returns a read-only handle. A missing file yields an error matching
// fs.ErrNotExist.
func (s *LocalStorage) Open(name string) (*os.File, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

// Delete removes name. Deleting a missing file is not an error.
func (s *LocalStorage) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// CleanupOlderThan removes files last modified more than ttl ago, including
// abandoned partial writes, and returns the names removed.
func (s *LocalStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	var removed []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			rel = path
		}
		removed = append(removed, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("cleanup %s: %w", s.root, err)
	}
	return removed, nil
}

func (s *LocalStorage) path(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) || strings.HasSuffix(name, partialSuffix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	path := filepath.Join(s.root, filepath.FromSlash(name))
	if !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return path, nil
}
