package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting a match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// rpcQuickMatch finds an empty RPS-Bomb match waiting for its player, or creates one.
func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	query := fmt.Sprintf("+label.open:T +label.game:%s +label.phase:%s", MatchLabelGame, phaseWaiting)
	limit := 1
	authoritative := true
	minSize := 0
	maxSize := 0

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("RpcQuickMatch [User:%s]: Failed to list matches: %v", userID, err)
		return "", runtime.NewError("failed to list matches", codeInternal)
	}

	resp := QuickMatchResponse{}
	if len(matches) > 0 {
		resp.MatchID = matches[0].MatchId
		logger.Info("RpcQuickMatch [User:%s]: Found existing match %s", userID, resp.MatchID)
	} else {
		matchID, err := nk.MatchCreate(ctx, MatchNameRPSBomb, map[string]interface{}{})
		if err != nil {
			logger.Error("RpcQuickMatch [User:%s]: Failed to create match: %v", userID, err)
			return "", runtime.NewError("failed to create match", codeInternal)
		}
		resp = QuickMatchResponse{MatchID: matchID, IsNew: true}
		logger.Info("RpcQuickMatch [User:%s]: Created new match %s", userID, matchID)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return "", runtime.NewError("internal error", codeInternal)
	}
	return string(b), nil
}
