// Command agent is a terminal chat that manages shopping lists through the
// server's tools. Start cmd/server first.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/joho/godotenv"

	"github.com/sakif/shopping-list/internal/agent"
	"github.com/sakif/shopping-list/internal/client"
	"github.com/sakif/shopping-list/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAgent()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	// Logs go to stderr so they don't interleave with the chat.
	logger := cfg.Log.NewLogger(os.Stderr)

	// Ctrl-C / SIGTERM cancels the in-flight turn and ends the loop.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api, err := client.New(cfg.APIURL)
	if err != nil {
		logger.Error("invalid shopping api url", slog.String("error", err.Error()))
		os.Exit(1)
	}
	llm := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))

	a, err := agent.New(ctx, &llm, api, agent.Options{
		Model:         anthropic.Model(cfg.Model),
		MaxTokens:     cfg.MaxTokens,
		MaxToolRounds: cfg.MaxToolRounds,
	}, logger)
	if err != nil {
		logger.Error("failed to start agent", slog.String("error", err.Error()), slog.String("api", cfg.APIURL))
		os.Exit(1)
	}
	session := a.Sessions().Start()

	inputCh, readErr := readLines(ctx, os.Stdin)

	fmt.Println("Shopping list agent (Ctrl-C to quit)")
	fmt.Println(`Try: "I need to buy a watermelon" or "What's in my shopping list?"`)

outer:
	for {
		fmt.Print("\u001b[94mYou\u001b[0m: ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case line, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		reply, err := a.Reply(ctx, session, line)
		switch {
		case errors.Is(err, context.Canceled):
			break outer
		case err != nil:
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("\u001b[93mAgent\u001b[0m: %s\n", reply)
	}
	fmt.Println()

	if history, ok := a.Sessions().History(session); ok {
		logger.Info("session ended",
			slog.String("session", session),
			slog.Int("messages", len(history)),
		)
	}
	a.Sessions().End(session)

	// Only reported once the reader has stopped on its own; on Ctrl-C it may
	// still be blocked in Scan.
	select {
	case err := <-readErr:
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
		}
	default:
	}
}

// readLines feeds r line by line into the returned channel, which is closed
// when r is exhausted or ctx is done. The scanner's final error, if any,
// arrives on the error channel after the lines channel closes.
func readLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}
