package main

import (
	"context"
	"fmt"

	"github.com/sandevgo/quorum/internal/service/rating"
	"github.com/spf13/cobra"
)

var rateCmd = &cobra.Command{
	Use:     "rate <session id> <answer id> <score>",
	Short:   "Rate an answer with an integer score",
	Example: "  quorum rate 17 2 5\n  quorum rate 17 3 -1",
	// Scores may be negative, which flag parsing would take for shorthands.
	DisableFlagParsing: true,
	SilenceUsage:       true,
	RunE: func(cmd *cobra.Command, args []string) error {
		args, help := rateArgs(args)
		if help {
			return cmd.Help()
		}
		if len(args) != 3 {
			return fmt.Errorf("accepts 3 arg(s), received %d", len(args))
		}

		score, err := rating.ParseScore(args[2])
		if err != nil {
			return err
		}
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.ratings.Rate(ctx, args[0], args[1], score); err != nil {
				return err
			}
			a.printer(cmd.OutOrStdout()).Success(fmt.Sprintf("answer #%s of session %s rated %d", args[1], args[0], score))
			return nil
		})
	},
}

// rateArgs picks the global flags out of raw args and keeps everything
// else, negative numbers included, as positional.
func rateArgs(raw []string) (args []string, help bool) {
	for i, arg := range raw {
		switch arg {
		case "--":
			return append(args, raw[i+1:]...), help
		case "-h", "--help":
			help = true
		case "-d", "--debug":
			debug = true
		default:
			args = append(args, arg)
		}
	}
	return args, help
}

func init() {
	rootCmd.AddCommand(rateCmd)
}
