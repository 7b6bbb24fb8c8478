package main

import (
	"context"
	"errors"
	"strings"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/spf13/cobra"
)

var askBestOnly bool

var askCmd = &cobra.Command{
	Use:          "ask <question>",
	Short:        "Ask the providers a question",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			s, err := a.questions.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				if errors.Is(err, core.ErrSubmissionFailed) {
					return errors.New(core.SubmissionFailedMessage)
				}
				return err
			}

			p := a.printer(cmd.OutOrStdout())
			if askBestOnly {
				p.Best(s)
			} else {
				p.Session(s)
			}
			return nil
		})
	},
}

func init() {
	askCmd.Flags().BoolVarP(&askBestOnly, "best", "b", false, "print only the recommended answer")
	rootCmd.AddCommand(askCmd)
}
