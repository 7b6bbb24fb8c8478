package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/service/answer"
	"github.com/sandevgo/quorum/internal/service/history"
	"github.com/sandevgo/quorum/internal/service/question"
	"github.com/sandevgo/quorum/internal/service/rating"
)

type ShowCommand struct {
	ledger    *history.Ledger
	selection *answer.Selection
	ratings   core.RatingLookup
	formatter *ResponseFormatter
}

func NewShowCommand(ledger *history.Ledger, selection *answer.Selection, ratings core.RatingLookup) *ShowCommand {
	return &ShowCommand{
		ledger:    ledger,
		selection: selection,
		ratings:   ratings,
		formatter: NewResponseFormatter(),
	}
}

func (c *ShowCommand) Name() string { return "show" }

func (c *ShowCommand) Description() string {
	return "Show a session's answers through the current filter"
}

func (c *ShowCommand) Execute(ctx context.Context, chatID string, args []string) (string, error) {
	if len(args) != 1 {
		return c.formatter.Usage("/show <session id>"), nil
	}
	s, ok := c.ledger.Get(args[0])
	if !ok {
		return "", fmt.Errorf("%w: session %s", core.ErrNotFound, args[0])
	}
	return RenderSession(c.formatter, s, c.selection, c.ratings), nil
}

// RenderSession formats s with its visible answers and the recommended one
// marked.
func RenderSession(f *ResponseFormatter, s core.SessionSummary, selection *answer.Selection, ratings core.RatingLookup) string {
	visible := selection.Visible(s.Answers)
	var bestID string
	if best, ok := selection.Best(s.Answers); ok {
		bestID = best.ID
	}
	return f.Session(s, visible, bestID, ratings)
}

type BestCommand struct {
	ledger    *history.Ledger
	selection *answer.Selection
	questions *question.Service
	formatter *ResponseFormatter
}

func NewBestCommand(ledger *history.Ledger, selection *answer.Selection, questions *question.Service) *BestCommand {
	return &BestCommand{
		ledger:    ledger,
		selection: selection,
		questions: questions,
		formatter: NewResponseFormatter(),
	}
}

func (c *BestCommand) Name() string { return "best" }

func (c *BestCommand) Description() string {
	return "Recommend the best answer of a session, the latest by default"
}

func (c *BestCommand) Execute(ctx context.Context, chatID string, args []string) (string, error) {
	s, err := c.target(args)
	if err != nil {
		return "", err
	}

	best, ok := c.selection.Best(s.Answers)
	if !ok {
		return c.formatter.Combine(
			c.formatter.Info(s.Question),
			"No answer passes the current filter.\n",
			c.formatter.Tip("/filter reset clears the filter"),
		), nil
	}
	return c.formatter.Combine(
		c.formatter.Info(s.Question),
		c.formatter.Answer(best, true, 0, false),
	), nil
}

func (c *BestCommand) target(args []string) (core.SessionSummary, error) {
	if len(args) > 0 {
		s, ok := c.ledger.Get(args[0])
		if !ok {
			return core.SessionSummary{}, fmt.Errorf("%w: session %s", core.ErrNotFound, args[0])
		}
		return s, nil
	}
	if c.questions != nil {
		if s, ok := c.questions.Current(); ok {
			return s, nil
		}
	}
	entries := c.ledger.Entries()
	if len(entries) == 0 {
		return core.SessionSummary{}, fmt.Errorf("%w: no sessions yet", core.ErrNotFound)
	}
	return entries[0], nil
}

type RateCommand struct {
	ratings   *rating.Store
	formatter *ResponseFormatter
}

func NewRateCommand(ratings *rating.Store) *RateCommand {
	return &RateCommand{ratings: ratings, formatter: NewResponseFormatter()}
}

func (c *RateCommand) Name() string { return "rate" }

func (c *RateCommand) Description() string { return "Rate an answer, e.g. /rate 17 2 5" }

func (c *RateCommand) Execute(ctx context.Context, chatID string, args []string) (string, error) {
	if len(args) != 3 {
		return c.formatter.Usage("/rate <session id> <answer id> <score>"), nil
	}
	score, err := rating.ParseScore(args[2])
	if err != nil {
		return "", err
	}
	if err := c.ratings.Rate(ctx, args[0], args[1], score); err != nil {
		return "", err
	}
	return c.formatter.Success(fmt.Sprintf("Answer #%s of session %s rated %d", args[1], args[0], score)), nil
}
