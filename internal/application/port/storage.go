package port

import "context"

// ObjectStore defines operations on uploaded file objects. Objects are
// written once by the upload surface and only removed by the workflow;
// they are never mutated in place.
type ObjectStore interface {
	// Save writes content under the given key
	Save(ctx context.Context, key string, content []byte) error

	// Exists reports whether an object is present under the key
	Exists(ctx context.Context, key string) bool

	// Remove deletes the object under the key
	Remove(ctx context.Context, key string) error

	// KeyFromURL derives the storage key referenced by a public file URL
	KeyFromURL(fileURL string) (string, error)
}
