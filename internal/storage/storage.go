package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no payload exists under the key.
var ErrKeyNotFound = errors.New("storage: key not found")

// Store is a durable keyed-blob store. Each key holds one JSON-serialized
// collection; writes are last-writer-wins per key.
type Store interface {
	// Get returns the payload stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores payload under key, replacing any prior value.
	Put(ctx context.Context, key string, payload []byte) error
	// PutAll stores every payload in one atomic write: either all keys
	// reach their new value or none do.
	PutAll(ctx context.Context, payloads map[string][]byte) error
	// Close releases the underlying resources.
	Close(ctx context.Context) error
}
