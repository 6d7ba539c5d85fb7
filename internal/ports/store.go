package ports

import (
	"context"

	"rpsbomb/internal/domain"
)

// MatchStore holds one match state per session key.
type MatchStore interface {
	// Load returns the state saved under sessionID. The boolean is false when
	// nothing has been saved yet. Returned states are copies owned by the caller.
	Load(ctx context.Context, sessionID string) (*domain.MatchState, bool, error)
	// Save replaces the state saved under sessionID.
	Save(ctx context.Context, sessionID string, state *domain.MatchState) error
	// Delete forgets the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error
}
