package nakama

import (
	"context"
	"strconv"

	"github.com/heroiclabs/nakama-common/runtime"

	"rpsbomb/internal/config"
)

// gameConfigFromEnv resolves the game config from the runtime env, falling
// back to defaults for anything missing or malformed.
func gameConfigFromEnv(ctx context.Context, logger runtime.Logger) config.GameConfig {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	if path, ok := env[EnvGameConfigPath]; ok && path != "" {
		if err := config.LoadGameConfig(path); err != nil {
			logger.Warn("Could not load game config %s: %v", path, err)
		}
	}
	gc := config.GetGameConfig()

	if val, ok := env[EnvBotBombProbability]; ok {
		p, err := strconv.ParseFloat(val, 64)
		if err != nil || p < 0 || p > 1 {
			logger.Warn("Ignoring %s=%q: want a number within [0,1]", EnvBotBombProbability, val)
		} else {
			gc.BotBombProbability = p
		}
	}
	return gc
}
