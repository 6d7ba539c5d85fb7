package domain

// NewMatchState returns a match at its lifecycle defaults.
func NewMatchState(id string) *MatchState {
	return &MatchState{
		ID:           id,
		CurrentRound: 1,
		Result:       ResultUndecided,
		History:      []RoundRecord{},
	}
}

// ApplyRound folds a resolved round into the match and returns the record
// that was appended. Callers must not apply rounds to a finished match.
func (s *MatchState) ApplyRound(user Validation, bot Move, outcome Outcome) RoundRecord {
	switch outcome {
	case OutcomeUserWin:
		s.UserScore++
	case OutcomeBotWin, OutcomeInvalidWasted:
		s.BotScore++
	}

	if user.Valid() && user.Move == MoveBomb {
		s.UserBombUsed = true
	}
	if outcome != OutcomeInvalidWasted && bot == MoveBomb {
		s.BotBombUsed = true
	}

	record := RoundRecord{
		Round:       s.CurrentRound,
		UserInput:   user.Input,
		UserMove:    user.Move,
		Outcome:     outcome,
		Reason:      user.Reason,
		UserScore:   s.UserScore,
		BotScore:    s.BotScore,
		Explanation: Explain(outcome, user, bot),
	}
	if outcome != OutcomeInvalidWasted {
		record.BotMove = bot
	}
	s.History = append(s.History, record)

	// The counter advances once per round and holds at MaxRounds.
	if s.CurrentRound < MaxRounds {
		s.CurrentRound++
	}
	if s.UserScore >= WinsToClinch || s.BotScore >= WinsToClinch || len(s.History) >= MaxRounds {
		s.GameOver = true
		s.Result = finalResult(s.UserScore, s.BotScore)
	}

	return record
}

// Snapshot returns a deep copy safe to hand to callers.
func (s *MatchState) Snapshot() MatchState {
	out := *s
	out.History = append([]RoundRecord{}, s.History...)
	return out
}

func finalResult(userScore, botScore int) GameResult {
	switch {
	case userScore > botScore:
		return ResultUserWins
	case botScore > userScore:
		return ResultBotWins
	default:
		return ResultDraw
	}
}
