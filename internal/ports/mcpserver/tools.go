package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"rpsbomb/internal/app"
	"rpsbomb/internal/domain"
)

// DefaultSession is the session key used when neither the caller nor the
// transport supplies one.
const DefaultSession = "default"

// PlayRoundInput represents the MCP tool input for playing a round.
type PlayRoundInput struct {
	Move      string `json:"move" jsonschema:"the user's move: rock, paper, scissors or bomb (case-insensitive)"`
	SessionID string `json:"session_id,omitempty" jsonschema:"optional game session; defaults to the MCP session"`
}

// SessionInput selects the game session for state tools.
type SessionInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"optional game session; defaults to the MCP session"`
}

// PlayRoundTool defines the MCP tool schema for playing a round.
func PlayRoundTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "play_round",
		Description: "Plays one round of Rock-Paper-Scissors-Bomb against the bot. Invalid moves waste the round and award it to the bot.",
	}
}

// GetGameStateTool defines the MCP tool schema for reading the match.
func GetGameStateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_game_state",
		Description: "Returns the current round, scores, bomb usage, result and round history without changing anything.",
	}
}

// ResetGameStateTool defines the MCP tool schema for starting over.
func ResetGameStateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "reset_game_state",
		Description: "Discards the current match and starts a fresh best-of-3.",
	}
}

func (s *Server) playRoundHandler() mcp.ToolHandlerFor[PlayRoundInput, app.RoundResult] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input PlayRoundInput) (*mcp.CallToolResult, app.RoundResult, error) {
		session := s.sessionKey(req, input.SessionID)
		result, _, err := s.referee.PlayRound(ctx, session, input.Move)
		if err != nil {
			s.logger.Warn().Err(err).Str("tool", "play_round").Str("session", session).Msg("round refused")
			return nil, app.RoundResult{}, err
		}
		s.logger.Info().
			Str("tool", "play_round").
			Str("session", session).
			Int("round", result.Round).
			Str("outcome", string(result.Outcome)).
			Bool("game_over", result.GameOver).
			Msg("round played")
		return nil, result, nil
	}
}

func (s *Server) getGameStateHandler() mcp.ToolHandlerFor[SessionInput, domain.MatchState] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SessionInput) (*mcp.CallToolResult, domain.MatchState, error) {
		session := s.sessionKey(req, input.SessionID)
		state, err := s.referee.GetState(ctx, session)
		if err != nil {
			s.logger.Error().Err(err).Str("tool", "get_game_state").Str("session", session).Msg("get state failed")
			return nil, domain.MatchState{}, err
		}
		return nil, state, nil
	}
}

func (s *Server) resetGameStateHandler() mcp.ToolHandlerFor[SessionInput, domain.MatchState] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SessionInput) (*mcp.CallToolResult, domain.MatchState, error) {
		session := s.sessionKey(req, input.SessionID)
		state, _, err := s.referee.Reset(ctx, session)
		if err != nil {
			s.logger.Error().Err(err).Str("tool", "reset_game_state").Str("session", session).Msg("reset failed")
			return nil, domain.MatchState{}, err
		}
		s.logger.Info().Str("tool", "reset_game_state").Str("session", session).Str("match", state.ID).Msg("match reset")
		return nil, state, nil
	}
}

// sessionKey prefers an explicit session, then the game tied to the MCP
// session. Explicit sessions outlive the connection that named them.
func (s *Server) sessionKey(req *mcp.CallToolRequest, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if req == nil {
		return DefaultSession
	}
	return s.track(req.Session)
}
