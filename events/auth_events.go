package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// AuthEvent is the shared payload for authentication transitions.
type AuthEvent struct {
	UserID     string    `json:"user_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// UserLoggedInV1 is published on a successful login, including social
// provider logins (Provider is set in that case).
var UserLoggedInV1 = helper.EventDefinition[AuthEvent](
	"auth", "UserLoggedIn", "v1",
)

// UserSignedUpV1 is published when a new account is created.
var UserSignedUpV1 = helper.EventDefinition[AuthEvent](
	"auth", "UserSignedUp", "v1",
)

// UserLoggedOutV1 is published when the session is destroyed.
var UserLoggedOutV1 = helper.EventDefinition[AuthEvent](
	"auth", "UserLoggedOut", "v1",
)

// AuthFailedV1 is published when a login or signup attempt is rejected.
// Reason carries the generic user-facing message, never the internal cause.
var AuthFailedV1 = helper.EventDefinition[AuthEvent](
	"auth", "AuthFailed", "v1",
)
