package main

import (
	"errors"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/quorum/internal/config"
	"github.com/sandevgo/quorum/internal/service/installer"
	"github.com/sandevgo/quorum/pkg/log"
	"github.com/spf13/cobra"
)

var installForce bool

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Configure Quorum interactively",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting setup")

		runtimePath := config.GetRuntimePath()
		state, err := installer.RunWizard(runtimePath, installForce)
		if err != nil {
			if errors.Is(err, installer.ErrInterrupted) {
				logger.Warn().Msg("setup cancelled, nothing was written")
				return nil
			}
			return err
		}

		// Load the new .env so the rest of this process sees it.
		envPath := filepath.Join(state.RuntimePath, ".env")
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", state.RuntimePath)
		if state.App.EnableTelegram {
			logger.Info().Msg("setup complete, run 'quorum serve' to start the Telegram bot")
		} else {
			logger.Info().Msg("setup complete, run 'quorum chat' or 'quorum ask'")
		}
		return nil
	},
}

func init() {
	installCmd.Flags().BoolVarP(&installForce, "force", "f", false, "overwrite an existing .env")
	rootCmd.AddCommand(installCmd)
}
