package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/service/question"
	"github.com/sandevgo/quorum/pkg/log"
)

const localChatID = "cli-local"

// Asker submits a question and resolves the channel once with the outcome.
type Asker interface {
	Submit(ctx context.Context, text string) (<-chan question.Result, error)
}

type ReadLine struct {
	asker   Asker
	router  core.CmdRouter
	printer *Printer
	rl      *readline.Instance
}

func NewReadLine(runtimePath string, asker Asker, router core.CmdRouter, printer *Printer) (*ReadLine, error) {
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	items := []readline.PrefixCompleterInterface{readline.PcItem("/help"), readline.PcItem("exit")}
	for _, cmd := range router.ListCommands() {
		items = append(items, readline.PcItem("/"+cmd.Name()))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "? ",
		HistoryFile:     filepath.Join(runtimePath, "input_history"),
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		asker:   asker,
		router:  router,
		printer: printer,
		rl:      rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("interactive prompt started, type a question or /help, 'exit' quits")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if !r.handleLine(ctx, line) {
			return nil
		}
	}
}

// handleLine runs one prompt line and reports whether to keep reading.
func (r *ReadLine) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return true
	case "exit", "quit":
		return false
	}

	if reply, ok := r.router.Execute(ctx, localChatID, line); ok {
		r.printer.Markdown(reply)
		return true
	}

	results, err := r.asker.Submit(ctx, line)
	if err != nil {
		r.printer.Error(err)
		return true
	}

	res := <-results
	if res.Err != nil {
		log.FromCtx(ctx).Error().Err(res.Err).Msg("question failed")
		r.printer.Error(errors.New(core.SubmissionFailedMessage))
		return true
	}
	r.printer.Session(res.Session)
	return true
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
