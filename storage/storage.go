package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("file not found")

// FileStore holds uploaded import files and archived exports under opaque keys
// such as "imports/{job}.xlsx".
type FileStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
