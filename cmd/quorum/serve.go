package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/quorum/internal/config"
	"github.com/sandevgo/quorum/internal/transport/telegram"
	"github.com/sandevgo/quorum/pkg/log"
	"github.com/sandevgo/quorum/pkg/srv"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	Long:  `Starts the Telegram bot and serves the owner until interrupted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			logger := log.FromCtx(ctx)
			if !a.cfg.IsTelegramSelected() {
				return errors.New("telegram is not enabled, run 'quorum install' or set QUORUM_ENABLE_TELEGRAM")
			}

			bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), a.questions, a.router(), a.selection, a.ratings)
			if err != nil {
				return err
			}

			logger.Info().Msg("starting quorum")
			if err := srv.Run(ctx, []srv.Service{srv.NewCleanup(a.Close), bot}); err != nil {
				return err
			}
			logger.Info().Msg("quorum has been shut down gracefully")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
