// Package storage defines the key-value persistence port used for session
// bundles. The host selects one adapter at startup (web storage, native
// storage, Redis, in-memory); core logic never branches on the platform.
package storage

import (
	"context"
	"errors"
)

// ErrNoValue is returned by GetItem when no value is stored under the key.
// Storage failures are non-fatal throughout authcore: callers treat any
// error as "no stored value".
var ErrNoValue = errors.New("storage: no value for key")

// Storage is the persistence contract. Implementations must be safe for
// concurrent use.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
