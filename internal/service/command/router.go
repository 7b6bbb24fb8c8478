package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sandevgo/quorum/internal/core"
)

// Router dispatches slash commands. It answers /help itself.
type Router struct {
	commands  map[string]core.Command
	formatter *ResponseFormatter
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands:  make(map[string]core.Command),
		formatter: NewResponseFormatter(),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	return c
}

// Execute runs input if it is a slash command. The bool is false for
// plain text, which callers treat as a question.
func (c *Router) Execute(ctx context.Context, chatID, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	// Telegram appends the bot name in groups: /history@quorum_bot
	name, _, _ = strings.Cut(name, "@")
	args := parts[1:]

	if name == "help" || name == "start" {
		return c.help(), true
	}

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s\nSend /help for the list.", name), true
	}

	result, err := cmd.Execute(ctx, chatID, args)
	if err != nil {
		return c.formatter.Error(describe(err), err), true
	}
	return result, true
}

// ListCommands returns the commands sorted by name.
func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	slices.SortFunc(res, func(a, b core.Command) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return res
}

func (c *Router) help() string {
	items := make([]string, 0, len(c.commands)+1)
	for _, cmd := range c.ListCommands() {
		items = append(items, fmt.Sprintf("/%s: %s", cmd.Name(), cmd.Description()))
	}
	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
		c.formatter.Tip("send any other text to ask all providers at once"),
	)
}

func describe(err error) string {
	switch {
	case errors.Is(err, core.ErrValidation):
		return "Invalid input"
	case errors.Is(err, core.ErrNotFound):
		return "Not found"
	case errors.Is(err, core.ErrStorageWrite):
		return "Saved in memory only"
	case errors.Is(err, core.ErrHistoryFetchFailed):
		return "History unavailable"
	default:
		return "Command failed"
	}
}
