// Package kv provides the persistent key-value storage backing client state
// (session fields and other small flags).
package kv

import "github.com/pkg/errors"

var ErrKeyNotFound = errors.New("kv: key not found")

// Store is any string key-value storage. Implementations must be safe for
// concurrent use; multi-process coordination is not expected
// (last-writer-wins).
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}
