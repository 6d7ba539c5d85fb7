package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

const (
	DefaultBotBombProbability = 0.2
	DefaultBotLevel           = "random"
	DefaultBotName            = "RPS Bot"
)

// GameConfig tunes the bot opponent.
type GameConfig struct {
	// BotBombProbability is the chance the bot plays its bomb while unused. Must be within [0,1].
	BotBombProbability float64 `json:"bot_bomb_probability"`
	BotLevel           string  `json:"bot_level"`
	BotName            string  `json:"bot_name"`
	// Seed fixes the bot's random source when non-zero.
	Seed int64 `json:"seed"`
}

// DefaultGameConfig returns the configuration used when no file is supplied.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		BotBombProbability: DefaultBotBombProbability,
		BotLevel:           DefaultBotLevel,
		BotName:            DefaultBotName,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// ParseGameConfig decodes a JSON game config, filling missing fields with defaults.
func ParseGameConfig(data []byte) (GameConfig, error) {
	var raw struct {
		BotBombProbability *float64 `json:"bot_bomb_probability"`
		BotLevel           string   `json:"bot_level"`
		BotName            string   `json:"bot_name"`
		Seed               int64    `json:"seed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}

	c := DefaultGameConfig()
	if raw.BotBombProbability != nil {
		p := *raw.BotBombProbability
		if p < 0 || p > 1 {
			return GameConfig{}, fmt.Errorf("bot_bomb_probability %v out of range [0,1]", p)
		}
		c.BotBombProbability = p
	}
	if raw.BotLevel != "" {
		c.BotLevel = raw.BotLevel
	}
	if raw.BotName != "" {
		c.BotName = raw.BotName
	}
	c.Seed = raw.Seed
	return c, nil
}

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c, err := ParseGameConfig(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or defaults when none was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return DefaultGameConfig()
	}
	return *cfg
}
