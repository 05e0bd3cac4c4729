package port

import (
	"context"
	"errors"
)

var (
	ErrKeyNotFound      = errors.New("key not found")
	ErrWatchUnsupported = errors.New("storage backend does not support change notifications")
)

// KVStore is a durable string-keyed store of opaque documents.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Watcher is implemented by KVStore backends that publish key changes.
type Watcher interface {
	// Watch calls fn with the key of every Set or Delete, including ones made
	// through other handles on the same backend, until ctx is done.
	Watch(ctx context.Context, fn func(key string)) error
}
