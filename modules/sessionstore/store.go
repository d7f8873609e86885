// Package sessionstore provides the durable key-value store holding the
// single persisted session under the auth_user key.
package sessionstore

import (
	"context"
	"errors"

	"github.com/example/taskstream/domain/user"
)

// SessionKey is the single key under which the serialized session lives.
const SessionKey = "auth_user"

// ErrNoSession is returned by Load when no session is persisted. A stored
// blob that fails to parse is treated the same way, never as a fatal error.
var ErrNoSession = errors.New("no persisted session")

// Store defines the durable session storage operations.
type Store interface {
	// Save persists the user as the current session, replacing any
	// previous one.
	Save(ctx context.Context, u *user.User) error
	// Load returns the persisted session, or ErrNoSession when absent
	// or unreadable.
	Load(ctx context.Context) (*user.User, error)
	// Clear removes the persisted session. Clearing an empty store is a
	// no-op.
	Clear(ctx context.Context) error
}
