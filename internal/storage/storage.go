// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storage reads raw decision folders from an object bucket: a
// local directory tree or an S3-compatible service such as Cloudflare R2.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/pdiddy/sc-decisions/pkg/types"
)

// Bucket is a read-only view of an object store. Keys use "/" separators.
type Bucket interface {
	// List returns every key under prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// Get returns the object at key. A missing object yields found=false
	// and a nil error; errors are reserved for real failures.
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
}

// New creates a Bucket for the configured backend.
func New(ctx context.Context, cfg types.StorageConfig) (Bucket, error) {
	switch cfg.Backend {
	case types.BackendLocal, "":
		return NewLocal(cfg.LocalDir)
	case types.BackendS3:
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

// Join builds a key from parts, dropping empty parts and stray slashes.
func Join(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			kept = append(kept, p)
		}
	}
	return path.Join(kept...)
}
