// Package storage puts objects into S3-compatible buckets.
package storage

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by New when no bucket is configured.
var ErrNotConfigured = errors.New("object storage not configured")

// ObjectStore stores a blob under key and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}
