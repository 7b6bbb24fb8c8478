package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/service/history"
)

// maxListed bounds a /history reply to keep it under the message limit.
const maxListed = 20

type HistoryCommand struct {
	ledger    *history.Ledger
	formatter *ResponseFormatter
}

func NewHistoryCommand(ledger *history.Ledger) *HistoryCommand {
	return &HistoryCommand{ledger: ledger, formatter: NewResponseFormatter()}
}

func (c *HistoryCommand) Name() string { return "history" }

func (c *HistoryCommand) Description() string {
	return "Search past sessions by text and date"
}

// Execute accepts free text plus optional from:YYYY-MM-DD and
// to:YYYY-MM-DD terms.
func (c *HistoryCommand) Execute(ctx context.Context, chatID string, args []string) (string, error) {
	var from, to string
	var words []string
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "from:"):
			from = strings.TrimPrefix(arg, "from:")
		case strings.HasPrefix(arg, "to:"):
			to = strings.TrimPrefix(arg, "to:")
		default:
			words = append(words, arg)
		}
	}

	dates, err := history.ParseDateRange(from, to, time.Local)
	if err != nil {
		return "", err
	}

	results := c.ledger.Query(history.QueryState{
		SearchQuery: strings.Join(words, " "),
		DateFilter:  dates,
	})
	if len(results) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("History"),
			"No sessions found.\n",
			c.formatter.Usage("/history [text] [from:YYYY-MM-DD] [to:YYYY-MM-DD]"),
		), nil
	}

	title := fmt.Sprintf("History (%d)", len(results))
	if len(results) > maxListed {
		title = fmt.Sprintf("History (%d, showing %d)", len(results), maxListed)
		results = results[:maxListed]
	}

	lines := make([]string, len(results))
	for i, s := range results {
		lines[i] = c.formatter.SessionLine(s)
	}
	return c.formatter.Combine(
		c.formatter.Info(title),
		c.formatter.List(lines),
		c.formatter.Tip("/show <id> opens a session"),
	), nil
}

type DeleteCommand struct {
	ledger    *history.Ledger
	formatter *ResponseFormatter
}

func NewDeleteCommand(ledger *history.Ledger) *DeleteCommand {
	return &DeleteCommand{ledger: ledger, formatter: NewResponseFormatter()}
}

func (c *DeleteCommand) Name() string { return "delete" }

func (c *DeleteCommand) Description() string { return "Delete a session from history" }

func (c *DeleteCommand) Execute(ctx context.Context, chatID string, args []string) (string, error) {
	if len(args) != 1 {
		return c.formatter.Usage("/delete <session id>"), nil
	}
	id := args[0]
	if _, ok := c.ledger.Get(id); !ok {
		return "", fmt.Errorf("%w: session %s", core.ErrNotFound, id)
	}
	c.ledger.DeleteByID(ctx, id)
	return c.formatter.Success(fmt.Sprintf("Session %s deleted", id)), nil
}

type ClearCommand struct {
	ledger    *history.Ledger
	formatter *ResponseFormatter
}

func NewClearCommand(ledger *history.Ledger) *ClearCommand {
	return &ClearCommand{ledger: ledger, formatter: NewResponseFormatter()}
}

func (c *ClearCommand) Name() string { return "clear" }

func (c *ClearCommand) Description() string { return "Clear the whole history" }

func (c *ClearCommand) Execute(ctx context.Context, chatID string, args []string) (string, error) {
	if len(args) != 1 || args[0] != "confirm" {
		return c.formatter.Combine(
			c.formatter.Info(fmt.Sprintf("This removes %d sessions", c.ledger.Len())),
			c.formatter.Usage("/clear confirm"),
		), nil
	}
	c.ledger.Clear(ctx)
	return c.formatter.Success("History cleared"), nil
}

type SyncCommand struct {
	ledger    *history.Ledger
	userID    string
	limit     int
	formatter *ResponseFormatter
}

func NewSyncCommand(ledger *history.Ledger, userID string, limit int) *SyncCommand {
	return &SyncCommand{ledger: ledger, userID: userID, limit: limit, formatter: NewResponseFormatter()}
}

func (c *SyncCommand) Name() string { return "sync" }

func (c *SyncCommand) Description() string {
	return "Replace local history with the server's"
}

func (c *SyncCommand) Execute(ctx context.Context, chatID string, args []string) (string, error) {
	fetched, err := c.ledger.Sync(ctx, c.userID, c.limit)
	if err != nil {
		return "", err
	}
	return c.formatter.Success(fmt.Sprintf("Loaded %d sessions", len(fetched))), nil
}
