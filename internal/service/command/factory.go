package command

import (
	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/service/answer"
	"github.com/sandevgo/quorum/internal/service/history"
	"github.com/sandevgo/quorum/internal/service/question"
	"github.com/sandevgo/quorum/internal/service/rating"
)

// Deps are the services the chat commands operate on.
type Deps struct {
	Ledger       *history.Ledger
	Ratings      *rating.Store
	Selection    *answer.Selection
	Questions    *question.Service
	UserID       string
	HistoryLimit int
}

func NewCommands(d Deps) []core.Command {
	return []core.Command{
		NewHistoryCommand(d.Ledger),
		NewShowCommand(d.Ledger, d.Selection, d.Ratings),
		NewBestCommand(d.Ledger, d.Selection, d.Questions),
		NewRateCommand(d.Ratings),
		NewDeleteCommand(d.Ledger),
		NewClearCommand(d.Ledger),
		NewSyncCommand(d.Ledger, d.UserID, d.HistoryLimit),
		NewFilterCommand(d.Selection),
		NewPreferCommand(d.Selection),
	}
}
