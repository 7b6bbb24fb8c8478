package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/service/history"
	"github.com/spf13/cobra"
)

var historyFlags struct {
	search    string
	from      string
	to        string
	syncLimit int
	yes       bool
}

var historyCmd = &cobra.Command{
	Use:          "history",
	Short:        "List and search past sessions",
	Long:         `Lists stored sessions, newest first. --from and --to take YYYY-MM-DD and are inclusive.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dr, err := history.ParseDateRange(historyFlags.from, historyFlags.to, time.Local)
		if err != nil {
			return err
		}
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			list := a.ledger.Query(history.QueryState{SearchQuery: historyFlags.search, DateFilter: dr})
			a.printer(cmd.OutOrStdout()).Sessions(list)
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:          "show <session id>",
	Short:        "Show a stored session",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			s, ok := a.ledger.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: session %s", core.ErrNotFound, args[0])
			}
			a.printer(cmd.OutOrStdout()).Session(s)
			return nil
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:          "delete <session id>",
	Short:        "Delete a stored session",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			if _, ok := a.ledger.Get(args[0]); !ok {
				return fmt.Errorf("%w: session %s", core.ErrNotFound, args[0])
			}
			a.ledger.DeleteByID(ctx, args[0])
			a.printer(cmd.OutOrStdout()).Success("deleted session " + args[0])
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:          "clear",
	Short:        "Delete every stored session",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !historyFlags.yes {
			return errors.New("refusing to clear history without --yes")
		}
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			a.ledger.Clear(ctx)
			a.printer(cmd.OutOrStdout()).Success("history cleared")
			return nil
		})
	},
}

var historySyncCmd = &cobra.Command{
	Use:          "sync",
	Short:        "Replace local history with the remote copy",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			limit := a.cfg.GetHistoryLimit()
			if cmd.Flags().Changed("limit") {
				limit = historyFlags.syncLimit
			}
			list, err := a.ledger.Sync(ctx, a.cfg.GetUserID(), limit)
			if err != nil {
				return err
			}
			a.printer(cmd.OutOrStdout()).Success(fmt.Sprintf("synced %d sessions", len(list)))
			return nil
		})
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyFlags.search, "search", "s", "", "case-insensitive text in the question or answers")
	historyCmd.Flags().StringVar(&historyFlags.from, "from", "", "first day, YYYY-MM-DD")
	historyCmd.Flags().StringVar(&historyFlags.to, "to", "", "last day, YYYY-MM-DD")

	historyClearCmd.Flags().BoolVarP(&historyFlags.yes, "yes", "y", false, "confirm deletion")
	historySyncCmd.Flags().IntVarP(&historyFlags.syncLimit, "limit", "l", 0, "maximum sessions to fetch")

	historyCmd.AddCommand(historyShowCmd, historyDeleteCmd, historyClearCmd, historySyncCmd)
	rootCmd.AddCommand(historyCmd)
}
