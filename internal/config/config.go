// Package config loads runtime configuration from the environment.
//
// Both binaries read plain environment variables (optionally from a .env
// file loaded by main). Every setting has a default except the Anthropic
// API key, which the agent cannot run without.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Server is the configuration of cmd/server.
type Server struct {
	Port            int           `envconfig:"PORT" default:"8000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	DB              DB
	Log             Log
}

// DB configures the storage engine. URL selects the driver: sqlite://,
// file:, a bare path or :memory: use SQLite; postgres:// uses Postgres.
type DB struct {
	URL             string        `envconfig:"DATABASE_URL" default:"sqlite://data/shopping_list.db"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

type Log struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// Agent is the configuration of cmd/agent.
type Agent struct {
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY" required:"true"`
	APIURL          string `envconfig:"SHOPPING_API_URL" default:"http://localhost:8000"`
	Model           string `envconfig:"AGENT_MODEL" default:"claude-sonnet-4-5"`
	MaxTokens       int64  `envconfig:"AGENT_MAX_TOKENS" default:"1024"`
	MaxToolRounds   int    `envconfig:"AGENT_MAX_TOOL_ROUNDS" default:"8"`
	Log             Log
}

// LoadServer reads the server configuration.
func LoadServer() (*Server, error) {
	var cfg Server
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if _, err := cfg.Log.level(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadAgent reads the agent configuration.
func LoadAgent() (*Agent, error) {
	var cfg Agent
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing agent config: %w", err)
	}
	if cfg.MaxTokens <= 0 {
		return nil, fmt.Errorf("invalid AGENT_MAX_TOKENS %d", cfg.MaxTokens)
	}
	if cfg.MaxToolRounds <= 0 {
		return nil, fmt.Errorf("invalid AGENT_MAX_TOOL_ROUNDS %d", cfg.MaxToolRounds)
	}
	if _, err := cfg.Log.level(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l Log) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", l.Level, err)
	}
	return lvl, nil
}

// NewLogger builds the slog logger described by l: "json" selects the JSON
// handler, anything else the text handler.
func (l Log) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := l.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
