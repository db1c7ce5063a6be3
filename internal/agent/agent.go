// Package agent is the conversational front-end: it lets a Claude model
// manage shopping lists by calling the server's tools.
//
// One user turn runs as a loop:
//
//	send history + tools → model answers
//	  text only      → turn done, history saved
//	  tool_use blocks → call each tool, send tool_result blocks, repeat
//
// Tool failures go back to the model as error results; they never abort
// the turn.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/sakif/shopping-list/internal/client"
)

// SystemPrompt frames every conversation.
const SystemPrompt = "You're a helpful assistant that lets users manage their shopping list using the shopping list tools. " +
	"Look up existing lists and items before changing them, and confirm what you did in one or two sentences."

var (
	ErrUnknownSession = errors.New("agent: unknown session")
	ErrToolRounds     = errors.New("agent: too many tool rounds in one turn")
)

// ToolClient reaches the tool catalog. *client.Client satisfies it.
type ToolClient interface {
	ListTools(ctx context.Context) ([]client.Tool, error)
	CallTool(ctx context.Context, name string, input json.RawMessage) (json.RawMessage, error)
}

var _ ToolClient = (*client.Client)(nil)

type Options struct {
	Model         anthropic.Model
	MaxTokens     int64
	MaxToolRounds int
	System        string
}

type Agent struct {
	llm      *anthropic.Client
	tools    ToolClient
	opts     Options
	params   []anthropic.ToolUnionParam
	sessions *Sessions
	logger   *slog.Logger
}

// New fetches the tool catalog once and returns a ready agent.
func New(ctx context.Context, llm *anthropic.Client, tools ToolClient, opts Options, logger *slog.Logger) (*Agent, error) {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1024
	}
	if opts.MaxToolRounds <= 0 {
		opts.MaxToolRounds = 8
	}
	if opts.System == "" {
		opts.System = SystemPrompt
	}

	catalog, err := tools.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tool catalog: %w", err)
	}
	params, err := toolParams(catalog)
	if err != nil {
		return nil, err
	}

	logger.Info("agent ready",
		slog.String("model", string(opts.Model)),
		slog.Int("tools", len(params)),
	)
	return &Agent{
		llm:      llm,
		tools:    tools,
		opts:     opts,
		params:   params,
		sessions: NewSessions(),
		logger:   logger,
	}, nil
}

// Sessions exposes the agent's conversations.
func (a *Agent) Sessions() *Sessions {
	return a.sessions
}

// toolParams converts the server's catalog into Anthropic tool params.
func toolParams(catalog []client.Tool) ([]anthropic.ToolUnionParam, error) {
	out := make([]anthropic.ToolUnionParam, 0, len(catalog))
	for _, t := range catalog {
		var schema struct {
			Properties map[string]any `json:"properties"`
			Required   []string       `json:"required"`
		}
		if err := json.Unmarshal(t.InputSchema, &schema); err != nil {
			return nil, fmt.Errorf("decoding schema of tool %q: %w", t.Name, err)
		}

		input := anthropic.ToolInputSchemaParam{Properties: schema.Properties}
		if len(schema.Required) > 0 {
			input.ExtraFields = map[string]any{"required": schema.Required}
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: input,
		}})
	}
	return out, nil
}

// Reply runs one user turn in the given session and returns the model's
// text. The history is only updated when the turn completes.
func (a *Agent) Reply(ctx context.Context, sessionID, text string) (string, error) {
	sess, ok := a.sessions.lookup(sessionID)
	if !ok {
		return "", ErrUnknownSession
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	conv := make([]anthropic.MessageParam, len(sess.history), len(sess.history)+1)
	copy(conv, sess.history)
	conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))

	for round := 0; round < a.opts.MaxToolRounds; round++ {
		msg, err := a.llm.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     a.opts.Model,
			MaxTokens: a.opts.MaxTokens,
			System:    []anthropic.TextBlockParam{{Text: a.opts.System}},
			Messages:  conv,
			Tools:     a.params,
		})
		if err != nil {
			return "", fmt.Errorf("agent: messages request: %w", err)
		}
		conv = append(conv, msg.ToParam())

		var texts []string
		toolResults := []anthropic.ContentBlockParamUnion{}
		for _, block := range msg.Content {
			switch v := block.AsAny().(type) {
			case anthropic.TextBlock:
				if strings.TrimSpace(v.Text) != "" {
					texts = append(texts, v.Text)
				}
			case anthropic.ToolUseBlock:
				input := json.RawMessage(v.JSON.Input.Raw())
				toolResults = append(toolResults, a.execTool(ctx, sessionID, v.ID, v.Name, input))
			}
		}

		if len(toolResults) == 0 {
			sess.history = conv
			return strings.Join(texts, "\n"), nil
		}
		conv = append(conv, anthropic.NewUserMessage(toolResults...))
	}

	a.logger.Warn("tool round limit reached",
		slog.String("session", sessionID),
		slog.Int("max_rounds", a.opts.MaxToolRounds),
	)
	return "", ErrToolRounds
}

func (a *Agent) execTool(ctx context.Context, sessionID, id, name string, input json.RawMessage) anthropic.ContentBlockParamUnion {
	out, err := a.tools.CallTool(ctx, name, input)
	if err != nil {
		a.logger.Info("tool call failed",
			slog.String("session", sessionID),
			slog.String("tool", name),
			slog.String("error", err.Error()),
		)
		return anthropic.NewToolResultBlock(id, err.Error(), true)
	}

	a.logger.Debug("tool call succeeded",
		slog.String("session", sessionID),
		slog.String("tool", name),
		slog.Int("output_size", len(out)),
	)
	return anthropic.NewToolResultBlock(id, string(out), false)
}
