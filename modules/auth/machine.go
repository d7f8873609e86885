package auth

import (
	"github.com/example/taskstream/domain/user"
)

// Phase is the coarse authentication phase.
type Phase string

const (
	PhaseUninitialized   Phase = "uninitialized"
	PhaseLoading         Phase = "loading"
	PhaseAuthenticated   Phase = "authenticated"
	PhaseUnauthenticated Phase = "unauthenticated"
)

// State is the full authentication state. The invariant
// IsAuthenticated() == (User != nil) holds after every transition.
type State struct {
	Phase Phase
	User  *user.User
}

// InitialState returns the state before the persisted session has been
// inspected.
func InitialState() State {
	return State{Phase: PhaseUninitialized}
}

// IsAuthenticated reports whether a user session is active.
func (s State) IsAuthenticated() bool {
	return s.User != nil
}

// EventType identifies an authentication transition trigger.
type EventType string

const (
	// EventOperationStarted marks the beginning of an asynchronous
	// login, signup or provider login.
	EventOperationStarted EventType = "operation_started"
	// EventOperationSucceeded carries the resolved user.
	EventOperationSucceeded EventType = "operation_succeeded"
	// EventOperationFailed marks a rejected login or signup.
	EventOperationFailed EventType = "operation_failed"
	// EventLoggedOut destroys the session synchronously.
	EventLoggedOut EventType = "logged_out"
	// EventInitialized restores (or not) the persisted session at
	// process start.
	EventInitialized EventType = "initialized"
)

// Event drives the state machine.
type Event struct {
	Type EventType
	User *user.User
}

// Effect is the persistence action a transition asks its caller to
// execute. Keeping I/O out of Reduce keeps the transition table pure and
// directly testable.
type Effect string

const (
	EffectNone           Effect = "none"
	EffectPersistSession Effect = "persist_session"
	EffectClearSession   Effect = "clear_session"
)

// Reduce applies an event to a state and returns the next state together
// with the persistence effect the caller must perform. No transition ever
// rests in the loading phase: every started operation is resolved by a
// success, failure or logout event before its caller returns.
func Reduce(s State, e Event) (State, Effect) {
	switch e.Type {
	case EventOperationStarted:
		return State{Phase: PhaseLoading, User: s.User}, EffectNone

	case EventOperationSucceeded:
		return State{Phase: PhaseAuthenticated, User: e.User}, EffectPersistSession

	case EventOperationFailed:
		// A failed operation drops any previous session so the durable
		// store never disagrees with the in-memory state.
		return State{Phase: PhaseUnauthenticated}, EffectClearSession

	case EventLoggedOut:
		return State{Phase: PhaseUnauthenticated}, EffectClearSession

	case EventInitialized:
		if e.User != nil {
			return State{Phase: PhaseAuthenticated, User: e.User}, EffectNone
		}
		return State{Phase: PhaseUnauthenticated}, EffectNone
	}
	return s, EffectNone
}
