package nakama

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"

	"rpsbomb/internal/domain"
)

func newTestMatch(moves ...domain.Move) (*matchHandler, *MatchState, *mockDispatcher) {
	referee := scriptedReferee(moves...)
	mh := newMatchHandler(referee)
	state := &MatchState{Phase: phaseWaiting, Referee: referee}
	return mh, state, &mockDispatcher{}
}

func TestMatchInitLabel(t *testing.T) {
	state, tickRate, label := newMatchHandler(scriptedReferee()).MatchInit(context.Background(), noopLogger{}, nil, nil, nil)
	if state == nil {
		t.Fatal("MatchInit returned nil state")
	}
	if tickRate != 1 {
		t.Fatalf("tickRate = %d, want 1", tickRate)
	}
	var got MatchLabel
	if err := json.Unmarshal([]byte(label), &got); err != nil {
		t.Fatalf("label %q: %v", label, err)
	}
	want := MatchLabel{Open: true, Game: MatchLabelGame, Phase: phaseWaiting}
	if got != want {
		t.Fatalf("label = %+v, want %+v", got, want)
	}
}

func TestMatchInitWithoutReferee(t *testing.T) {
	state, _, label := newMatchHandler(nil).MatchInit(context.Background(), noopLogger{}, nil, nil, nil)
	if state != nil || label != "" {
		t.Fatalf("MatchInit = (%v, %q), want no match without a referee", state, label)
	}
}

func TestMatchAndRpcShareGame(t *testing.T) {
	referee := scriptedReferee(domain.MoveScissors)
	mh := newMatchHandler(referee)
	ctx := userCtx("u1")

	raw, _, _ := mh.MatchInit(ctx, noopLogger{}, nil, nil, nil)
	state, ok := raw.(*MatchState)
	if !ok {
		t.Fatalf("MatchInit state = %T, want *MatchState", raw)
	}
	d := &mockDispatcher{}
	mh.join(ctx, state, d, noopLogger{}, "u1", nil)
	mh.handleMessage(ctx, state, d, noopLogger{}, "u1", OpPlayRound, []byte(`{"move":"rock"}`))

	out, err := rpcGetState(referee)(ctx, noopLogger{}, nil, nil, "")
	if err != nil {
		t.Fatalf("rpc error: %v", err)
	}
	var got domain.MatchState
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.UserScore != 1 || len(got.History) != 1 {
		t.Fatalf("rpc state = %+v, want the round played in the match", got)
	}
}

func TestCanJoin(t *testing.T) {
	tests := []struct {
		name      string
		owner     string
		connected bool
		user      string
		want      bool
	}{
		{"empty match", "", false, "u1", true},
		{"owner reconnects", "u1", false, "u1", true},
		{"owner already in", "u1", true, "u1", false},
		{"stranger", "u1", false, "u2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &MatchState{OwnerID: tt.owner, Connected: tt.connected}
			if got, _ := state.canJoin(tt.user); got != tt.want {
				t.Fatalf("canJoin(%s) = %v, want %v", tt.user, got, tt.want)
			}
		})
	}
}

func TestJoinSendsSnapshotAndClosesLabel(t *testing.T) {
	mh, state, d := newTestMatch()
	mh.join(context.Background(), state, d, noopLogger{}, "u1", nil)

	if state.OwnerID != "u1" || !state.Connected || state.Phase != phasePlaying {
		t.Fatalf("state = %+v, want u1 connected playing", state)
	}
	if got := d.lastLabel(); got.Open || got.Phase != phasePlaying {
		t.Fatalf("label = %+v, want closed playing", got)
	}
	var snap domain.MatchState
	if err := json.Unmarshal(d.last(OpStateSnapshot), &snap); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.CurrentRound != 1 || snap.GameOver {
		t.Fatalf("snapshot = %+v, want fresh match", snap)
	}
}

func TestHandlePlayRoundBroadcasts(t *testing.T) {
	mh, state, d := newTestMatch(domain.MoveScissors, domain.MoveRock)
	ctx := context.Background()
	mh.join(ctx, state, d, noopLogger{}, "u1", nil)
	d.messages = nil

	mh.handleMessage(ctx, state, d, noopLogger{}, "u1", OpPlayRound, []byte(`{"move":"rock"}`))
	if got := d.opCodes(); !reflect.DeepEqual(got, []int64{OpRoundPlayed}) {
		t.Fatalf("opcodes = %v, want [%d]", got, OpRoundPlayed)
	}
	var rec domain.RoundRecord
	_ = json.Unmarshal(d.last(OpRoundPlayed), &rec)
	if rec.Outcome != domain.OutcomeUserWin || rec.Round != 1 {
		t.Fatalf("record = %+v, want round 1 user_win", rec)
	}

	mh.handleMessage(ctx, state, d, noopLogger{}, "u1", OpPlayRound, []byte(`{"move":"paper"}`))
	var ended gameEndedMessage
	if err := json.Unmarshal(d.last(OpGameEnded), &ended); err != nil {
		t.Fatalf("game ended: %v", err)
	}
	if ended.Result != domain.ResultUserWins || ended.UserScore != 2 {
		t.Fatalf("ended = %+v, want user_wins 2-0", ended)
	}
	if state.Phase != phaseEnded || d.lastLabel().Phase != phaseEnded {
		t.Fatalf("phase = %s, want ended", state.Phase)
	}

	// Further plays are refused.
	d.messages = nil
	mh.handleMessage(ctx, state, d, noopLogger{}, "u1", OpPlayRound, []byte(`{"move":"rock"}`))
	var e errorMessage
	_ = json.Unmarshal(d.last(OpError), &e)
	if e.Code != codeFailedPrecondition {
		t.Fatalf("error code = %d, want %d", e.Code, codeFailedPrecondition)
	}
}

func TestHandlePlayRoundRejectedMove(t *testing.T) {
	mh, state, d := newTestMatch(domain.MoveRock)
	ctx := context.Background()
	mh.join(ctx, state, d, noopLogger{}, "u1", nil)
	d.messages = nil

	mh.handleMessage(ctx, state, d, noopLogger{}, "u1", OpPlayRound, []byte(`{"move":"spock"}`))
	if got := d.opCodes(); !reflect.DeepEqual(got, []int64{OpMoveRejected, OpRoundPlayed}) {
		t.Fatalf("opcodes = %v, want [%d %d]", got, OpMoveRejected, OpRoundPlayed)
	}
	var rej moveRejectedMessage
	_ = json.Unmarshal(d.last(OpMoveRejected), &rej)
	if rej.Reason != domain.ReasonUnrecognizedMove || rej.Input != "spock" {
		t.Fatalf("rejection = %+v", rej)
	}
}

func TestHandleMessageBadPayloadAndStrangers(t *testing.T) {
	mh, state, d := newTestMatch(domain.MoveRock)
	ctx := context.Background()
	mh.join(ctx, state, d, noopLogger{}, "u1", nil)
	d.messages = nil

	mh.handleMessage(ctx, state, d, noopLogger{}, "u1", OpPlayRound, []byte(`garbage`))
	var e errorMessage
	_ = json.Unmarshal(d.last(OpError), &e)
	if e.Code != codeInvalidArgument {
		t.Fatalf("error code = %d, want %d", e.Code, codeInvalidArgument)
	}

	d.messages = nil
	mh.handleMessage(ctx, state, d, noopLogger{}, "intruder", OpPlayRound, []byte(`{"move":"rock"}`))
	if len(d.messages) != 0 {
		t.Fatalf("non-player message produced %d broadcasts", len(d.messages))
	}
	snap, _ := state.Referee.GetState(ctx, "u1")
	if len(snap.History) != 0 {
		t.Fatalf("history len = %d, want 0", len(snap.History))
	}
}

func TestHandleResetAndRequestState(t *testing.T) {
	mh, state, d := newTestMatch(domain.MoveScissors, domain.MoveRock)
	ctx := context.Background()
	mh.join(ctx, state, d, noopLogger{}, "u1", nil)
	mh.handleMessage(ctx, state, d, noopLogger{}, "u1", OpPlayRound, []byte(`{"move":"rock"}`))
	mh.handleMessage(ctx, state, d, noopLogger{}, "u1", OpPlayRound, []byte(`{"move":"paper"}`))

	mh.handleMessage(ctx, state, d, noopLogger{}, "u1", OpResetMatch, nil)
	if state.Phase != phasePlaying {
		t.Fatalf("phase = %s, want playing after reset", state.Phase)
	}
	var snap domain.MatchState
	_ = json.Unmarshal(d.last(OpStateSnapshot), &snap)
	if snap.GameOver || snap.UserScore != 0 || snap.CurrentRound != 1 || len(snap.History) != 0 {
		t.Fatalf("snapshot after reset = %+v", snap)
	}

	d.messages = nil
	mh.handleMessage(ctx, state, d, noopLogger{}, "u1", OpRequestState, nil)
	var again domain.MatchState
	_ = json.Unmarshal(d.last(OpStateSnapshot), &again)
	if !reflect.DeepEqual(snap, again) {
		t.Fatalf("request state = %+v, want %+v", again, snap)
	}
}

func TestShouldTerminateAfterIdleTicks(t *testing.T) {
	state := &MatchState{}
	for i := 1; i < emptyTicksLimit; i++ {
		if state.shouldTerminate() {
			t.Fatalf("terminated early at tick %d", i)
		}
	}
	if !state.shouldTerminate() {
		t.Fatalf("expected termination after %d idle ticks", emptyTicksLimit)
	}

	state = &MatchState{Connected: true, EmptyTicks: 10}
	if state.shouldTerminate() || state.EmptyTicks != 0 {
		t.Fatalf("connected match should reset idle ticks")
	}
}

func TestGameConfigFromEnvIgnoresBadProbability(t *testing.T) {
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_ENV, map[string]string{
		EnvBotBombProbability: "2",
	})
	gc := gameConfigFromEnv(ctx, noopLogger{})
	if gc.BotBombProbability != 0.2 {
		t.Fatalf("bomb probability = %v, want default 0.2", gc.BotBombProbability)
	}

	ctx = context.WithValue(context.Background(), runtime.RUNTIME_CTX_ENV, map[string]string{
		EnvBotBombProbability: "0",
	})
	if gc := gameConfigFromEnv(ctx, noopLogger{}); gc.BotBombProbability != 0 {
		t.Fatalf("bomb probability = %v, want 0", gc.BotBombProbability)
	}
}
