package app

import (
	"fmt"
	"math/rand"

	"rpsbomb/internal/bot"
	"rpsbomb/internal/config"
	"rpsbomb/internal/ports"
)

// NewServiceFromConfig builds the bot described by gc and wires it to store.
// A zero seed leaves the bot time-seeded.
func NewServiceFromConfig(gc config.GameConfig, store ports.MatchStore) (*Service, error) {
	var rng *rand.Rand
	if gc.Seed != 0 {
		rng = rand.New(rand.NewSource(gc.Seed))
	}
	brain, err := bot.NewBrain(bot.BotLevel(gc.BotLevel), rng, gc.BotBombProbability)
	if err != nil {
		return nil, fmt.Errorf("build bot: %w", err)
	}
	return NewService(store, bot.NewAgent(gc.BotName, brain)), nil
}
