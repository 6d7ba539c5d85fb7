package memory

import (
	"context"
	"errors"
	"sync"

	"rpsbomb/internal/domain"
	"rpsbomb/internal/ports"
)

// ErrNilState is returned when saving a nil state.
var ErrNilState = errors.New("state is nil")

// Store keeps match states in process memory.
type Store struct {
	mu     sync.RWMutex
	states map[string]domain.MatchState
}

var _ ports.MatchStore = (*Store)(nil)

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{states: make(map[string]domain.MatchState)}
}

func (s *Store) Load(ctx context.Context, sessionID string) (*domain.MatchState, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[sessionID]
	if !ok {
		return nil, false, nil
	}
	out := state.Snapshot()
	return &out, true, nil
}

func (s *Store) Save(ctx context.Context, sessionID string, state *domain.MatchState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if state == nil {
		return ErrNilState
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[sessionID] = state.Snapshot()
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, sessionID)
	return nil
}

// Len returns the number of sessions held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
