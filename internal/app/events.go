package app

import "rpsbomb/internal/domain"

// EventKind identifies emitted referee events for adapter dispatch.
type EventKind string

const (
	EventRoundPlayed  EventKind = "round_played"
	EventMoveRejected EventKind = "move_rejected"
	EventGameEnded    EventKind = "game_ended"
	EventMatchReset   EventKind = "match_reset"
)

// Event is an app event tied to the session that produced it.
type Event struct {
	Kind      EventKind
	SessionID string
	Payload   any
}

type RoundPlayedPayload struct {
	Record domain.RoundRecord
}

type MoveRejectedPayload struct {
	Round  int
	Input  string
	Reason domain.RejectReason
}

type GameEndedPayload struct {
	Result    domain.GameResult
	UserScore int
	BotScore  int
}

type MatchResetPayload struct {
	MatchID string
}
