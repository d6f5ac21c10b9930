// Package filestore defines the object storage contract the reference-data
// importer reads its feeds through.
//
// Callers depend only on this package, never on a specific provider:
//
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	obj, err := store.GetObject(ctx, cfg.Bucket, "feeds/cities.csv")
package filestore

import "context"

// Store is the read-only interface every storage provider implements.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// ListObjects returns the objects in bucket that match opts.
	// Virtual directory entries are included when opts.Recursive is false.
	ListObjects(ctx context.Context, bucket string, opts ListOptions) ([]ObjectInfo, error)

	// GetObject opens a streaming handle to the object at key inside bucket.
	// The caller MUST call Object.Close() after reading.
	GetObject(ctx context.Context, bucket, key string) (Object, error)

	// StatObject returns metadata for the object at key without downloading
	// its content.
	StatObject(ctx context.Context, bucket, key string) (*ObjectInfo, error)
}
