package bot

import (
	"rpsbomb/internal/domain"
)

// DefaultName is the display name of the referee's opponent.
const DefaultName = "RPS Bot"

// Agent represents the bot seat in a match.
type Agent struct {
	Name     string
	Strategy Brain
}

// NewAgent wraps a brain under a display name.
func NewAgent(name string, strategy Brain) *Agent {
	if name == "" {
		name = DefaultName
	}
	return &Agent{Name: name, Strategy: strategy}
}

// Play asks the agent for its move in the current round.
func (a *Agent) Play(state *domain.MatchState) domain.Move {
	return a.Strategy.ChooseMove(state)
}
