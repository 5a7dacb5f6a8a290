package storage

import "errors"

// ErrKeyNotFound is returned by KV.Get when the key has never been written
var ErrKeyNotFound = errors.New("key not found")

// KV is a flat key-value blob store. Each logical collection lives under a
// single key as one JSON document, the way the mobile client persists it.
type KV interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Blobs
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}
