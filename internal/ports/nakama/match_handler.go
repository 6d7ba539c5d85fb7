package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/heroiclabs/nakama-common/runtime"

	"rpsbomb/internal/app"
	"rpsbomb/internal/domain"
)

// emptyTicksLimit is how many ticks a match may sit without its player before it terminates.
const emptyTicksLimit = 60

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	OwnerID    string           `json:"owner_id"` // user id of the single human player, empty until someone joins
	Connected  bool             `json:"connected"`
	Phase      string           `json:"phase"`
	Tick       int64            `json:"tick"`
	EmptyTicks int              `json:"empty_ticks"`
	Referee    app.Referee      `json:"-"`
	Presence   runtime.Presence `json:"-"`
}

// MatchLabel is the JSON label used for match listing queries.
type MatchLabel struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

type playRoundMessage struct {
	Move string `json:"move"`
}

type errorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type moveRejectedMessage struct {
	Round  int                 `json:"round"`
	Input  string              `json:"input"`
	Reason domain.RejectReason `json:"reason"`
}

type gameEndedMessage struct {
	Result    domain.GameResult `json:"game_result"`
	UserScore int               `json:"user_score"`
	BotScore  int               `json:"bot_score"`
}

// newMatchHandler returns a handler whose matches play on referee, the same
// one the RPCs use, so a user sees one game on both surfaces.
func newMatchHandler(referee app.Referee) *matchHandler {
	return &matchHandler{referee: referee}
}

type matchHandler struct {
	referee app.Referee
}

var _ runtime.Match = (*matchHandler)(nil)

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if mh.referee == nil {
		logger.Error("MatchInit: No referee configured.")
		return nil, 0, ""
	}

	state := &MatchState{
		Phase:   phaseWaiting,
		Referee: mh.referee,
	}

	label, err := state.label()
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	allowed, reason := matchState.canJoin(presence.GetUserId())
	return state, allowed, reason
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		mh.join(ctx, matchState, dispatcher, logger, p.GetUserId(), p)
	}
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		if p.GetUserId() == matchState.OwnerID {
			matchState.Connected = false
			matchState.Presence = nil
			logger.Debug("MatchLeave: Player %s disconnected.", p.GetUserId())
		}
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg.GetUserId(), msg.GetOpCode(), msg.GetData())
	}

	if matchState.shouldTerminate() {
		logger.Info("MatchLoop: Terminating match after %d ticks without its player.", matchState.EmptyTicks)
		return nil
	}
	return matchState
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

// canJoin admits the first player, and that same player again after a reconnect.
func (ms *MatchState) canJoin(userID string) (bool, string) {
	if ms.OwnerID != "" && ms.OwnerID != userID {
		return false, "Match full"
	}
	if ms.OwnerID == userID && ms.Connected {
		return false, "Already joined"
	}
	return true, ""
}

// shouldTerminate counts ticks without a connected player.
func (ms *MatchState) shouldTerminate() bool {
	if ms.Connected {
		ms.EmptyTicks = 0
		return false
	}
	ms.EmptyTicks++
	return ms.EmptyTicks >= emptyTicksLimit
}

func (ms *MatchState) label() (string, error) {
	b, err := json.Marshal(MatchLabel{
		Open:  ms.OwnerID == "",
		Game:  MatchLabelGame,
		Phase: ms.Phase,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (mh *matchHandler) join(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, presence runtime.Presence) {
	if state.OwnerID != "" && state.OwnerID != userID {
		logger.Warn("MatchJoin: User %s joined a match owned by %s.", userID, state.OwnerID)
		return
	}
	state.OwnerID = userID
	state.Presence = presence
	state.Connected = true
	state.EmptyTicks = 0
	if state.Phase == phaseWaiting {
		state.Phase = phasePlaying
	}
	logger.Info("MatchJoin: Player %s seated.", userID)

	mh.updateLabel(state, dispatcher, logger)
	mh.sendSnapshot(ctx, state, dispatcher, logger)
}

// handleMessage routes one client message. Only the seated player may act.
func (mh *matchHandler) handleMessage(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string, opCode int64, data []byte) {
	if senderID != state.OwnerID {
		logger.Warn("handleMessage: Ignoring opcode %d from non-player %s", opCode, senderID)
		return
	}

	switch opCode {
	case OpPlayRound:
		mh.handlePlayRound(ctx, state, dispatcher, logger, senderID, data)
	case OpRequestState:
		mh.sendSnapshot(ctx, state, dispatcher, logger)
	case OpResetMatch:
		mh.handleReset(ctx, state, dispatcher, logger, senderID)
	default:
		logger.Warn("handleMessage: Unknown opcode received: %d", opCode)
	}
}

func (mh *matchHandler) handlePlayRound(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string, data []byte) {
	var req playRoundMessage
	if err := json.Unmarshal(data, &req); err != nil {
		logger.Warn("handlePlayRound: Bad payload from %s: %v", senderID, err)
		mh.sendError(dispatcher, logger, codeInvalidArgument, "payload must be {\"move\": string}")
		return
	}

	_, events, err := state.Referee.PlayRound(ctx, senderID, req.Move)
	if err != nil {
		logger.Warn("handlePlayRound: User %s failed to play %q: %v", senderID, req.Move, err)
		code := codeInternal
		if errors.Is(err, app.ErrGameOver) {
			code = codeFailedPrecondition
		}
		mh.sendError(dispatcher, logger, code, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleReset(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string) {
	_, events, err := state.Referee.Reset(ctx, senderID)
	if err != nil {
		logger.Error("handleReset: User %s failed to reset: %v", senderID, err)
		mh.sendError(dispatcher, logger, codeInternal, err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	mh.sendSnapshot(ctx, state, dispatcher, logger)
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload any

	switch ev.Kind {
	case app.EventRoundPlayed:
		opCode = OpRoundPlayed
		payload = ev.Payload.(app.RoundPlayedPayload).Record
	case app.EventMoveRejected:
		opCode = OpMoveRejected
		p := ev.Payload.(app.MoveRejectedPayload)
		payload = moveRejectedMessage{Round: p.Round, Input: p.Input, Reason: p.Reason}
	case app.EventGameEnded:
		opCode = OpGameEnded
		p := ev.Payload.(app.GameEndedPayload)
		payload = gameEndedMessage{Result: p.Result, UserScore: p.UserScore, BotScore: p.BotScore}
		state.Phase = phaseEnded
		mh.updateLabel(state, dispatcher, logger)
	case app.EventMatchReset:
		// Clients learn about the fresh match from the snapshot that follows.
		state.Phase = phasePlaying
		mh.updateLabel(state, dispatcher, logger)
		return
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	mh.send(dispatcher, logger, opCode, payload)
}

func (mh *matchHandler) sendSnapshot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	snapshot, err := state.Referee.GetState(ctx, state.OwnerID)
	if err != nil {
		logger.Error("sendSnapshot: %v", err)
		mh.sendError(dispatcher, logger, codeInternal, err.Error())
		return
	}
	mh.send(dispatcher, logger, OpStateSnapshot, snapshot)
}

// sendError reports a failed client request.
func (mh *matchHandler) sendError(dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	mh.send(dispatcher, logger, OpError, errorMessage{Code: code, Message: message})
}

// send broadcasts to every presence; a match holds at most one player.
func (mh *matchHandler) send(dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload any) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal opcode %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, bytes, nil, nil, true); err != nil {
		logger.Error("Failed to broadcast opcode %d: %v", opCode, err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := state.label()
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}
