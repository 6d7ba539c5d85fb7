package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"rpsbomb/internal/app"
	"rpsbomb/internal/ports/memory"
)

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	gc := gameConfigFromEnv(ctx, logger)

	referee, err := app.NewServiceFromConfig(gc, memory.NewStore())
	if err != nil {
		logger.Error("InitModule: Failed to build referee: %v", err)
		return err
	}

	if err := RegisterRPCs(initializer, referee); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameRPSBomb, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(referee), nil
	}); err != nil {
		return err
	}

	logger.Info("RPS-Bomb Go module loaded (bot=%s level=%s bomb_p=%.2f).", gc.BotName, gc.BotLevel, gc.BotBombProbability)
	return nil
}
