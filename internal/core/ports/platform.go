// Package ports holds the interfaces the core services depend on for
// infrastructure concerns. Platform adapters implement them; tests mock them.
package ports

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrLockNotObtained is returned by Locker.Obtain when another holder
// already owns the key.
var ErrLockNotObtained = errors.New("lock not obtained")

// Lock is a held distributed lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker hands out named distributed locks with a bounded TTL.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// ObjectStore is blob storage for uploaded documents and rendered reports.
type ObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	GetBytes(ctx context.Context, key string) ([]byte, error)
	PresignedGetURL(ctx context.Context, key string, filename string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
}
