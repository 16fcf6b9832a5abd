// Package kv defines the opaque string key-value service the task list
// persists into. Backends live in the subpackages.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key holds no value.
	ErrNotFound = errors.New("key not found")

	// ErrCorrupt is returned when the backend's own storage cannot be decoded.
	ErrCorrupt = errors.New("backend data corrupt")
)

// KV is an asynchronous get/set service keyed by string.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases the backend's resources.
	Close() error
}
