// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalBucket serves objects from a directory tree.
type LocalBucket struct {
	root string
}

// NewLocal returns a LocalBucket rooted at dir, which must exist.
func NewLocal(dir string) (*LocalBucket, error) {
	if dir == "" {
		return nil, fmt.Errorf("local storage directory is not configured")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening local storage %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("local storage %s is not a directory", dir)
	}
	return &LocalBucket{root: dir}, nil
}

func (b *LocalBucket) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(key, "/")))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes the storage root", key)
	}
	return filepath.Join(b.root, clean), nil
}

// List walks the tree under prefix.
func (b *LocalBucket) List(ctx context.Context, prefix string) ([]string, error) {
	start, err := b.path(prefix)
	if err != nil {
		return nil, err
	}

	var keys []string
	err = filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == start {
				return fs.SkipAll
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(b.root, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Get reads one file.
func (b *LocalBucket) Get(_ context.Context, key string) ([]byte, bool, error) {
	p, err := b.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, true, nil
}
