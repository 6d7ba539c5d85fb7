package bot

import (
	"sync"

	"rpsbomb/internal/domain"
)

// ScriptedBrain replays a fixed sequence of moves, wrapping around at the end.
// An empty script always plays rock.
type ScriptedBrain struct {
	mu    sync.Mutex
	moves []domain.Move
	next  int
}

// NewScriptedBrain returns a brain that plays moves in order.
func NewScriptedBrain(moves ...domain.Move) *ScriptedBrain {
	return &ScriptedBrain{moves: append([]domain.Move{}, moves...)}
}

// ChooseMove returns the next scripted move.
func (b *ScriptedBrain) ChooseMove(_ *domain.MatchState) domain.Move {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.moves) == 0 {
		return domain.MoveRock
	}
	move := b.moves[b.next%len(b.moves)]
	b.next++
	return move
}
