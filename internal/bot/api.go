package bot

import (
	"rpsbomb/internal/domain"
)

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	ChooseMove(state *domain.MatchState) domain.Move
}
