package app

import "rpsbomb/internal/domain"

// RoundResult is what a caller learns after one PlayRound.
type RoundResult struct {
	Round       int                 `json:"round"`
	UserInput   string              `json:"user_input"`
	UserMove    domain.Move         `json:"user_move,omitempty"`
	Reason      domain.RejectReason `json:"reject_reason,omitempty"`
	BotMove     domain.Move         `json:"bot_move,omitempty"`
	Outcome     domain.Outcome      `json:"outcome"`
	Explanation string              `json:"explanation"`
	UserScore   int                 `json:"user_score"`
	BotScore    int                 `json:"bot_score"`
	GameOver    bool                `json:"game_over"`
	Result      domain.GameResult   `json:"game_result"`
	NextRound   int                 `json:"next_round,omitempty"` // zero once the match is over
	MatchID     string              `json:"match_id"`
}

func newRoundResult(state *domain.MatchState, record domain.RoundRecord) RoundResult {
	res := RoundResult{
		Round:       record.Round,
		UserInput:   record.UserInput,
		UserMove:    record.UserMove,
		Reason:      record.Reason,
		BotMove:     record.BotMove,
		Outcome:     record.Outcome,
		Explanation: record.Explanation,
		UserScore:   state.UserScore,
		BotScore:    state.BotScore,
		GameOver:    state.GameOver,
		Result:      state.Result,
		MatchID:     state.ID,
	}
	if !state.GameOver {
		res.NextRound = state.CurrentRound
	}
	return res
}
