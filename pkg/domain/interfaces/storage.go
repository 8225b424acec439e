package interfaces

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes one stored object
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}

// ObjectStorage abstracts the shared object store. Keys are full
// derived paths; isolation between tenants is purely prefix-based, so
// callers must only pass keys produced by the addressing service.
type ObjectStorage interface {
	// Put writes an object under the exact key
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// List enumerates objects whose key starts with prefix
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Delete removes the object with the exact key. No wildcard delete.
	Delete(ctx context.Context, key string) error

	// SignedURL returns a time-limited retrieval URL for the key
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	Close() error
}
