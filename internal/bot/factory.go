package bot

import (
	"fmt"
	"math/rand"
)

// BotLevel selects a bot strategy.
type BotLevel string

const (
	// BotLevelRandom draws from the fixed bomb/standard distribution.
	BotLevelRandom BotLevel = "random"
)

// NewBrain creates a new bot brain based on the specified level.
func NewBrain(level BotLevel, rng *rand.Rand, bombProbability float64) (Brain, error) {
	switch level {
	case BotLevelRandom, "":
		return NewRandomBrain(rng, bombProbability), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %s", level)
	}
}
