package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"rpsbomb/internal/bot"
	"rpsbomb/internal/domain"
	"rpsbomb/internal/ports"
)

// Referee is the capability surface handed to tool adapters.
type Referee interface {
	PlayRound(ctx context.Context, sessionID, rawMove string) (RoundResult, []Event, error)
	GetState(ctx context.Context, sessionID string) (domain.MatchState, error)
	Reset(ctx context.Context, sessionID string) (domain.MatchState, []Event, error)
	Forget(ctx context.Context, sessionID string) error
}

var (
	ErrGameOver       = errors.New("match is over")
	ErrMissingSession = errors.New("session id is required")
	ErrIllegalBotMove = errors.New("bot produced an illegal move")
)

// Service runs RPS-Bomb rounds against a bot for any number of sessions.
type Service struct {
	mu    sync.Mutex
	store ports.MatchStore
	agent *bot.Agent
	newID func() string
}

var _ Referee = (*Service)(nil)

// NewService wires the referee to a store and a bot seat.
func NewService(store ports.MatchStore, agent *bot.Agent) *Service {
	return &Service{
		store: store,
		agent: agent,
		newID: uuid.NewString,
	}
}

// PlayRound validates the user's move, draws the bot move, resolves the round
// and persists the updated match. A rejected move is a wasted round, not an error.
func (s *Service) PlayRound(ctx context.Context, sessionID, rawMove string) (RoundResult, []Event, error) {
	if sessionID == "" {
		return RoundResult{}, nil, ErrMissingSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadOrCreate(ctx, sessionID)
	if err != nil {
		return RoundResult{}, nil, err
	}
	if state.GameOver {
		return RoundResult{}, nil, fmt.Errorf("%w: %s", ErrGameOver, state.Result)
	}

	validation := domain.ValidateMove(rawMove, state.UserBombUsed)

	// A wasted round never consults the bot.
	var botMove domain.Move
	if validation.Valid() {
		botMove = s.agent.Play(state)
		if err := checkBotMove(botMove, state.BotBombUsed); err != nil {
			return RoundResult{}, nil, err
		}
	}

	outcome := domain.ResolveRound(validation, botMove)
	record := state.ApplyRound(validation, botMove, outcome)

	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return RoundResult{}, nil, fmt.Errorf("save match: %w", err)
	}

	events := make([]Event, 0, 3)
	if !validation.Valid() {
		events = append(events, Event{
			Kind:      EventMoveRejected,
			SessionID: sessionID,
			Payload: MoveRejectedPayload{
				Round:  record.Round,
				Input:  validation.Input,
				Reason: validation.Reason,
			},
		})
	}
	events = append(events, Event{
		Kind:      EventRoundPlayed,
		SessionID: sessionID,
		Payload:   RoundPlayedPayload{Record: record},
	})
	if state.GameOver {
		events = append(events, Event{
			Kind:      EventGameEnded,
			SessionID: sessionID,
			Payload: GameEndedPayload{
				Result:    state.Result,
				UserScore: state.UserScore,
				BotScore:  state.BotScore,
			},
		})
	}

	return newRoundResult(state, record), events, nil
}

// GetState returns a copy of the session's match. A session seen for the first
// time gets a fresh match, so repeated calls agree with each other.
func (s *Service) GetState(ctx context.Context, sessionID string) (domain.MatchState, error) {
	if sessionID == "" {
		return domain.MatchState{}, ErrMissingSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadOrCreate(ctx, sessionID)
	if err != nil {
		return domain.MatchState{}, err
	}
	return state.Snapshot(), nil
}

// Reset replaces the session's match with a fresh one.
func (s *Service) Reset(ctx context.Context, sessionID string) (domain.MatchState, []Event, error) {
	if sessionID == "" {
		return domain.MatchState{}, nil, ErrMissingSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state := domain.NewMatchState(s.newID())
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return domain.MatchState{}, nil, fmt.Errorf("save match: %w", err)
	}
	events := []Event{{
		Kind:      EventMatchReset,
		SessionID: sessionID,
		Payload:   MatchResetPayload{MatchID: state.ID},
	}}
	return state.Snapshot(), events, nil
}

// Forget drops the session entirely, e.g. when its transport goes away.
func (s *Service) Forget(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(ctx, sessionID)
}

func (s *Service) loadOrCreate(ctx context.Context, sessionID string) (*domain.MatchState, error) {
	state, ok, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load match: %w", err)
	}
	if ok {
		return state, nil
	}
	state = domain.NewMatchState(s.newID())
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("save match: %w", err)
	}
	return state, nil
}

func checkBotMove(move domain.Move, bombUsed bool) error {
	v := domain.ValidateMove(string(move), bombUsed)
	if !v.Valid() {
		return fmt.Errorf("%w: %q (%s)", ErrIllegalBotMove, move, v.Reason)
	}
	return nil
}
