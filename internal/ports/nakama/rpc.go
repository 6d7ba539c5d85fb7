package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"

	"rpsbomb/internal/app"
)

type rpcFunc = func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)

type playRoundRequest struct {
	Move      string `json:"move"`
	SessionID string `json:"session_id"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer, referee app.Referee) error {
	rpcs := map[string]rpcFunc{
		RpcPlayRound:  rpcPlayRound(referee),
		RpcGetState:   rpcGetState(referee),
		RpcReset:      rpcReset(referee),
		RpcQuickMatch: rpcQuickMatch,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}

// rpcPlayRound plays one round for the calling session.
//
// Payload: {"move": "rock", "session_id": "optional for server-to-server calls"}
// Returns: app.RoundResult as JSON.
func rpcPlayRound(referee app.Referee) rpcFunc {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		if err := validatePayload(playRoundLoader, payload); err != nil {
			return "", runtime.NewError(err.Error(), codeInvalidArgument)
		}
		var req playRoundRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("payload is not valid JSON", codeInvalidArgument)
		}

		session, err := sessionKey(ctx, req.SessionID)
		if err != nil {
			return "", toRuntimeError(err)
		}

		result, _, err := referee.PlayRound(ctx, session, req.Move)
		if err != nil {
			logger.Warn("RpcPlayRound [Session:%s]: %v", session, err)
			return "", toRuntimeError(err)
		}
		logger.Debug("RpcPlayRound [Session:%s]: round %d %s (%d-%d)", session, result.Round, result.Outcome, result.UserScore, result.BotScore)
		return marshalResponse(logger, result)
	}
}

// rpcGetState returns the calling session's match without changing it.
func rpcGetState(referee app.Referee) rpcFunc {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		session, err := decodeSession(ctx, payload)
		if err != nil {
			return "", err
		}
		state, err := referee.GetState(ctx, session)
		if err != nil {
			logger.Error("RpcGetState [Session:%s]: %v", session, err)
			return "", toRuntimeError(err)
		}
		return marshalResponse(logger, state)
	}
}

// rpcReset starts a fresh match for the calling session.
func rpcReset(referee app.Referee) rpcFunc {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		session, err := decodeSession(ctx, payload)
		if err != nil {
			return "", err
		}
		state, _, err := referee.Reset(ctx, session)
		if err != nil {
			logger.Error("RpcReset [Session:%s]: %v", session, err)
			return "", toRuntimeError(err)
		}
		logger.Info("RpcReset [Session:%s]: new match %s", session, state.ID)
		return marshalResponse(logger, state)
	}
}

func decodeSession(ctx context.Context, payload string) (string, error) {
	if err := validatePayload(sessionLoader, payload); err != nil {
		return "", runtime.NewError(err.Error(), codeInvalidArgument)
	}
	var req sessionRequest
	if strings.TrimSpace(payload) != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("payload is not valid JSON", codeInvalidArgument)
		}
	}
	session, err := sessionKey(ctx, req.SessionID)
	if err != nil {
		return "", toRuntimeError(err)
	}
	return session, nil
}

// sessionKey picks the caller's user id, falling back to the payload's
// session id for server-to-server calls that carry no user.
func sessionKey(ctx context.Context, requested string) (string, error) {
	if userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string); userID != "" {
		return userID, nil
	}
	if requested != "" {
		return requested, nil
	}
	return "", app.ErrMissingSession
}

func toRuntimeError(err error) error {
	switch {
	case errors.Is(err, app.ErrMissingSession):
		return runtime.NewError(err.Error(), codeInvalidArgument)
	case errors.Is(err, app.ErrGameOver):
		return runtime.NewError(err.Error()+"; call "+RpcReset+" to start a new match", codeFailedPrecondition)
	default:
		return runtime.NewError("internal error", codeInternal)
	}
}

func marshalResponse(logger runtime.Logger, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to marshal response: %v", err)
		return "", runtime.NewError("internal error", codeInternal)
	}
	return string(b), nil
}
