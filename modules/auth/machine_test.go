package auth

import (
	"testing"

	"github.com/example/taskstream/domain/user"
)

func TestReduceTransitions(t *testing.T) {
	alice := &user.User{ID: "1", Email: "alice@example.com", Name: "Alice"}

	tests := []struct {
		name       string
		state      State
		event      Event
		wantPhase  Phase
		wantUser   *user.User
		wantEffect Effect
	}{
		{
			name:       "started from uninitialized",
			state:      InitialState(),
			event:      Event{Type: EventOperationStarted},
			wantPhase:  PhaseLoading,
			wantEffect: EffectNone,
		},
		{
			name:       "started keeps current user",
			state:      State{Phase: PhaseAuthenticated, User: alice},
			event:      Event{Type: EventOperationStarted},
			wantPhase:  PhaseLoading,
			wantUser:   alice,
			wantEffect: EffectNone,
		},
		{
			name:       "succeeded persists session",
			state:      State{Phase: PhaseLoading},
			event:      Event{Type: EventOperationSucceeded, User: alice},
			wantPhase:  PhaseAuthenticated,
			wantUser:   alice,
			wantEffect: EffectPersistSession,
		},
		{
			name:       "failed clears session",
			state:      State{Phase: PhaseLoading, User: alice},
			event:      Event{Type: EventOperationFailed},
			wantPhase:  PhaseUnauthenticated,
			wantEffect: EffectClearSession,
		},
		{
			name:       "logout clears session",
			state:      State{Phase: PhaseAuthenticated, User: alice},
			event:      Event{Type: EventLoggedOut},
			wantPhase:  PhaseUnauthenticated,
			wantEffect: EffectClearSession,
		},
		{
			name:       "logout while unauthenticated",
			state:      State{Phase: PhaseUnauthenticated},
			event:      Event{Type: EventLoggedOut},
			wantPhase:  PhaseUnauthenticated,
			wantEffect: EffectClearSession,
		},
		{
			name:       "initialized with restored user",
			state:      InitialState(),
			event:      Event{Type: EventInitialized, User: alice},
			wantPhase:  PhaseAuthenticated,
			wantUser:   alice,
			wantEffect: EffectNone,
		},
		{
			name:       "initialized without session",
			state:      InitialState(),
			event:      Event{Type: EventInitialized},
			wantPhase:  PhaseUnauthenticated,
			wantEffect: EffectNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, effect := Reduce(tt.state, tt.event)
			if next.Phase != tt.wantPhase {
				t.Errorf("phase = %s, want %s", next.Phase, tt.wantPhase)
			}
			if next.User != tt.wantUser {
				t.Errorf("user = %v, want %v", next.User, tt.wantUser)
			}
			if effect != tt.wantEffect {
				t.Errorf("effect = %s, want %s", effect, tt.wantEffect)
			}
		})
	}
}

func TestStateAuthenticatedTracksUser(t *testing.T) {
	alice := &user.User{ID: "1", Email: "alice@example.com"}

	sequence := []Event{
		{Type: EventInitialized},
		{Type: EventOperationStarted},
		{Type: EventOperationSucceeded, User: alice},
		{Type: EventOperationStarted},
		{Type: EventOperationFailed},
		{Type: EventLoggedOut},
	}

	state := InitialState()
	for _, e := range sequence {
		state, _ = Reduce(state, e)
		if state.IsAuthenticated() != (state.User != nil) {
			t.Fatalf("IsAuthenticated()=%v but User=%v after %s",
				state.IsAuthenticated(), state.User, e.Type)
		}
	}

	if state.Phase != PhaseUnauthenticated {
		t.Errorf("final phase = %s, want %s", state.Phase, PhaseUnauthenticated)
	}
}
