package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/sandevgo/quorum/internal/transport/cli"
	"github.com/sandevgo/quorum/pkg/log"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:          "chat",
	Short:        "Ask questions in an interactive prompt",
	Long:         `Reads questions line by line. Lines starting with / run the same commands the Telegram bot offers.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		cmd.SetContext(ctx)

		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			repl, err := cli.NewReadLine(a.cfg.GetRuntimePath(), a.questions, a.router(), a.printer(os.Stdout))
			if err != nil {
				return err
			}
			defer func() {
				if err := repl.Shutdown(ctx); err != nil {
					log.FromCtx(ctx).Error().Err(err).Msg("failed to close prompt")
				}
			}()
			if err := repl.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
