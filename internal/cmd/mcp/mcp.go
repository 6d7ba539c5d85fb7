// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"rpsbomb/internal/app"
	"rpsbomb/internal/config"
	"rpsbomb/internal/ports/mcpserver"
	"rpsbomb/internal/ports/memory"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Version is reported to MCP clients.
var Version = "dev"

// Config holds MCP command configuration.
type Config struct {
	HTTPAddr   string `env:"RPSBOMB_MCP_HTTP_ADDR" envDefault:"localhost:8081"`
	Transport  string `env:"RPSBOMB_MCP_TRANSPORT" envDefault:"stdio"`
	GameConfig string `env:"RPSBOMB_GAME_CONFIG"`
	LogLevel   string `env:"RPSBOMB_LOG_LEVEL"     envDefault:"info"`
	PrettyLogs bool   `env:"RPSBOMB_LOG_PRETTY"    envDefault:"true"`

	// JWTSecret enables bearer-token auth on the HTTP transport when set.
	JWTSecret string        `env:"RPSBOMB_MCP_JWT_SECRET"`
	JWTIssuer string        `env:"RPSBOMB_MCP_JWT_ISSUER" envDefault:"rpsbomb"`
	TokenTTL  time.Duration `env:"RPSBOMB_MCP_TOKEN_TTL"  envDefault:"1h"`

	// IssueToken is flag-only: print a token for this player and exit.
	IssueToken string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.GameConfig, "game-config", cfg.GameConfig, "Path to a JSON game config")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.BoolVar(&cfg.PrettyLogs, "log-pretty", cfg.PrettyLogs, "Human-readable console logs")
	fs.StringVar(&cfg.IssueToken, "issue-token", "", "Print an HTTP access token for the named player and exit")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewLogger builds the process logger. It never writes to stdout, which the
// stdio transport owns.
func NewLogger(cfg Config, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level: %w", err)
	}
	if cfg.PrettyLogs {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	if cfg.IssueToken != "" {
		return issueToken(cfg, os.Stdout)
	}

	logger, err := NewLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}

	server, err := newServer(cfg, logger)
	if err != nil {
		return err
	}

	switch cfg.Transport {
	case TransportStdio, "":
		logger.Info().Msg("serving MCP on stdio")
		return server.ServeStdio(ctx)
	case TransportHTTP:
		if cfg.JWTSecret != "" {
			server.WithTokenVerifier(tokenService(cfg))
		} else {
			logger.Warn().Msg("HTTP transport has no auth; set RPSBOMB_MCP_JWT_SECRET to require tokens")
		}
		return server.ServeHTTP(ctx, cfg.HTTPAddr)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

func newServer(cfg Config, logger zerolog.Logger) (*mcpserver.Server, error) {
	if cfg.Transport != TransportStdio && cfg.Transport != TransportHTTP && cfg.Transport != "" {
		return nil, fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
	if cfg.GameConfig != "" {
		if err := config.LoadGameConfig(cfg.GameConfig); err != nil {
			return nil, err
		}
	}
	gc := config.GetGameConfig()

	referee, err := app.NewServiceFromConfig(gc, memory.NewStore())
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("bot", gc.BotName).
		Str("level", gc.BotLevel).
		Float64("bomb_probability", gc.BotBombProbability).
		Msg("referee ready")
	return mcpserver.New(referee, logger, Version), nil
}

func tokenService(cfg Config) *app.TokenService {
	return app.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
}

func issueToken(cfg Config, w io.Writer) error {
	token, err := tokenService(cfg).Issue(cfg.IssueToken)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	_, err = fmt.Fprintln(w, token)
	return err
}
