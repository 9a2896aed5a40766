// Package metadata stores small key/value records of the local client:
// the persisted session and user preferences.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeySession = "session"
	KeyTheme   = "theme"
)

// Repository is a key/value store. Get returns common.ErrorNotFound for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
