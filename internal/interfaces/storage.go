package interfaces

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KeyValueStorage.Get when a key is absent.
var ErrNotFound = errors.New("key not found")

// KeyValueStorage is a durable string key-value store. It backs the quote
// cache slot the way browser local storage backs a single-page app.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error

	// SetMany writes all pairs in one transaction where the backend supports it.
	SetMany(ctx context.Context, kv map[string]string) error

	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]string, error)
	Close() error
}
