package installer

import "github.com/sandevgo/quorum/internal/config"

// InstallState collects the answers of the wizard. Fields left at their
// zero value are omitted from .env so their defaults apply.
type InstallState struct {
	App      config.AppConfig
	Telegram config.TelegramConfig

	// RuntimePath is where .env and preferences.yaml are written.
	RuntimePath string
	// Overwrite allows replacing an existing .env.
	Overwrite bool
}

func NewInstallState(runtimePath string) *InstallState {
	return &InstallState{RuntimePath: runtimePath}
}
