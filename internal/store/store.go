package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a key has never been written.
	ErrNotFound = errors.New("key not found")
)

// Key identifies a persisted value.
type Key uint32

// KV is the persistence contract the watchface needs: typed integer and
// string values addressed by numeric keys.
type KV interface {
	GetInt(ctx context.Context, key Key) (int, error)
	SetInt(ctx context.Context, key Key, value int) error
	GetString(ctx context.Context, key Key) (string, error)
	SetString(ctx context.Context, key Key, value string) error
	Close() error
}
