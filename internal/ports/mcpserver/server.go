// Package mcpserver exposes the referee as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"rpsbomb/internal/app"
)

const (
	serverName = "rpsbomb-referee"

	// shutdownTimeout bounds graceful HTTP shutdown.
	shutdownTimeout = 10 * time.Second
)

// Server wires the referee's tools, prompt and resource into an MCP server.
type Server struct {
	referee   app.Referee
	logger    zerolog.Logger
	mcpServer *mcp.Server
	verifier  TokenVerifier

	// sessions maps each live *mcp.ServerSession to its game key.
	sessions sync.Map
}

// New builds an MCP server around referee.
func New(referee app.Referee, logger zerolog.Logger, version string) *Server {
	s := &Server{
		referee: referee,
		logger:  logger.With().Str("component", "mcp").Logger(),
	}
	s.mcpServer = mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, &mcp.ServerOptions{
		Instructions: RulesText,
		InitializedHandler: func(_ context.Context, req *mcp.InitializedRequest) {
			s.track(req.Session)
		},
	})

	mcp.AddTool(s.mcpServer, PlayRoundTool(), s.playRoundHandler())
	mcp.AddTool(s.mcpServer, GetGameStateTool(), s.getGameStateHandler())
	mcp.AddTool(s.mcpServer, ResetGameStateTool(), s.resetGameStateHandler())
	s.mcpServer.AddPrompt(RulesPrompt(), rulesPromptHandler)
	s.mcpServer.AddResource(RulesResource(), rulesResourceHandler)
	return s
}

// track assigns ss a game key on first sight and forgets that game once the
// session ends.
func (s *Server) track(ss *mcp.ServerSession) string {
	if ss == nil {
		return DefaultSession
	}
	key := ss.ID()
	if key == "" {
		key = uuid.NewString()
	}
	actual, loaded := s.sessions.LoadOrStore(ss, key)
	if loaded {
		return actual.(string)
	}
	go s.forgetOnClose(ss, key)
	return key
}

func (s *Server) forgetOnClose(ss *mcp.ServerSession, key string) {
	_ = ss.Wait()
	s.sessions.Delete(ss)
	if err := s.referee.Forget(context.Background(), key); err != nil {
		s.logger.Error().Err(err).Str("session", key).Msg("forget session failed")
		return
	}
	s.logger.Debug().Str("session", key).Msg("session closed, game forgotten")
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.mcpServer
}

// Serve runs the server on transport until the peer disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// ServeStdio serves a single client over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Serve(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns a streamable HTTP handler. Each HTTP session gets its
// own MCP session id, which keys its game.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}

// ServeHTTP listens on addr and serves /mcp until ctx ends.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.serveListener(ctx, listener)
}

func (s *Server) serveListener(ctx context.Context, listener net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", s.requireBearer(s.HTTPHandler()))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	httpServer := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info().Str("addr", listener.Addr().String()).Msg("starting MCP HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		return fmt.Errorf("HTTP server error: %w", err)
	}
}
