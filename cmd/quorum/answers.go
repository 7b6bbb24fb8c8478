package main

import (
	"context"
	"fmt"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/service/answer"
	"github.com/sandevgo/quorum/internal/transport/cli"
	"github.com/spf13/cobra"
)

var answersFlags struct {
	providers []string
	keywords  []string
	minLength int
	best      bool
}

var answersCmd = &cobra.Command{
	Use:   "answers <session id>",
	Short: "Show a session's answers",
	Long: `Shows the answers of a stored session through the saved filter.
Filter flags apply to this call only and are not saved.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			s, ok := a.ledger.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: session %s", core.ErrNotFound, args[0])
			}

			p, err := adHocPrinter(cmd, a)
			if err != nil {
				return err
			}
			if answersFlags.best {
				p.Best(s)
			} else {
				p.Session(s)
			}
			return nil
		})
	},
}

// adHocPrinter layers the changed filter flags over the saved filter
// without persisting them.
func adHocPrinter(cmd *cobra.Command, a *app) (*cli.Printer, error) {
	var u core.FilterUpdate
	flags := cmd.Flags()
	if flags.Changed("provider") {
		u.Providers = &answersFlags.providers
	}
	if flags.Changed("keyword") {
		u.Keywords = &answersFlags.keywords
	}
	if flags.Changed("min-length") {
		u.MinLength = &answersFlags.minLength
	}
	if u == (core.FilterUpdate{}) {
		return a.printer(cmd.OutOrStdout()), nil
	}

	cfg, err := answer.ApplyFilterUpdate(a.selection.FilterConfig(), u)
	if err != nil {
		return nil, err
	}
	fe, err := answer.NewFilterEngine(cfg)
	if err != nil {
		return nil, err
	}
	rec := answer.NewRecommender(a.selection.RecommendationConfig(), a.ratings)
	return cli.NewPrinter(cmd.OutOrStdout(), answer.NewSelection(fe, rec, nil), a.ratings), nil
}

func init() {
	f := answersCmd.Flags()
	f.StringSliceVarP(&answersFlags.providers, "provider", "p", nil, "only show these providers")
	f.StringSliceVarP(&answersFlags.keywords, "keyword", "k", nil, "only show answers containing any keyword")
	f.IntVarP(&answersFlags.minLength, "min-length", "m", 0, "minimum answer length in characters")
	f.BoolVarP(&answersFlags.best, "best", "b", false, "print only the recommended answer")
	rootCmd.AddCommand(answersCmd)
}
