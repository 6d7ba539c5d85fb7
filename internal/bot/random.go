package bot

import (
	"math/rand"
	"sync"
	"time"

	"rpsbomb/internal/domain"
)

// DefaultBombProbability is the chance the bot opens with its bomb while it still has one.
const DefaultBombProbability = 0.2

// RandomBrain plays the fixed-probability strategy: bomb with the configured probability
// while the bomb is unused, otherwise a uniform pick among the standard moves.
type RandomBrain struct {
	mu              sync.Mutex
	rng             *rand.Rand
	bombProbability float64
}

// NewRandomBrain constructs a RandomBrain with provided rng or a time-seeded default.
// A probability outside [0,1] falls back to DefaultBombProbability.
func NewRandomBrain(rng *rand.Rand, bombProbability float64) *RandomBrain {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if bombProbability < 0 || bombProbability > 1 {
		bombProbability = DefaultBombProbability
	}
	return &RandomBrain{rng: rng, bombProbability: bombProbability}
}

// ChooseMove draws the bot move for the current round.
func (b *RandomBrain) ChooseMove(state *domain.MatchState) domain.Move {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !state.BotBombUsed && b.rng.Float64() < b.bombProbability {
		return domain.MoveBomb
	}
	return domain.StandardMoves[b.rng.Intn(len(domain.StandardMoves))]
}
