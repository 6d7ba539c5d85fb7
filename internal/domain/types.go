package domain

// Move is a hand played in a round.
type Move string

const (
	MoveRock     Move = "rock"
	MovePaper    Move = "paper"
	MoveScissors Move = "scissors"
	// MoveBomb beats every move except another bomb and may be played once per match.
	MoveBomb Move = "bomb"
)

// AllMoves lists every recognized move.
var AllMoves = []Move{MoveRock, MovePaper, MoveScissors, MoveBomb}

// StandardMoves lists the moves that carry no usage limit.
var StandardMoves = []Move{MoveRock, MovePaper, MoveScissors}

// Outcome is the result of a single round.
type Outcome string

const (
	OutcomeUserWin Outcome = "user_win"
	OutcomeBotWin  Outcome = "bot_win"
	OutcomeDraw    Outcome = "draw"
	// OutcomeInvalidWasted marks a round lost to a rejected user move.
	OutcomeInvalidWasted Outcome = "invalid_wasted"
)

// GameResult is the final verdict of a match.
type GameResult string

const (
	ResultUndecided GameResult = "undecided"
	ResultUserWins  GameResult = "user_wins"
	ResultBotWins   GameResult = "bot_wins"
	ResultDraw      GameResult = "draw"
)

// RejectReason explains why a raw move was refused.
type RejectReason string

const (
	ReasonUnrecognizedMove RejectReason = "unrecognized_move"
	ReasonBombAlreadyUsed  RejectReason = "bomb_already_used"
)

// RoundRecord is one completed round in a match history.
type RoundRecord struct {
	Round       int          `json:"round"`
	UserInput   string       `json:"user_input"`
	UserMove    Move         `json:"user_move,omitempty"` // empty when the input was rejected
	BotMove     Move         `json:"bot_move,omitempty"`  // empty for wasted rounds
	Outcome     Outcome      `json:"outcome"`
	Reason      RejectReason `json:"reason,omitempty"`
	UserScore   int          `json:"user_score"`
	BotScore    int          `json:"bot_score"`
	Explanation string       `json:"explanation"`
}

// MatchState holds the authoritative state of one best-of-3 match.
type MatchState struct {
	ID           string `json:"id"`
	CurrentRound int    `json:"current_round"`

	UserScore int `json:"user_score"`
	BotScore  int `json:"bot_score"`

	UserBombUsed bool `json:"user_bomb_used"`
	BotBombUsed  bool `json:"bot_bomb_used"`

	GameOver bool       `json:"game_over"`
	Result   GameResult `json:"game_result"`

	History []RoundRecord `json:"round_history"` // play order
}
