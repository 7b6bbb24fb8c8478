package installer

import "github.com/sandevgo/quorum/internal/config"

const (
	channelCLI      = "cli"
	channelTelegram = "telegram"
)

// NewChannelStep chooses whether `quorum serve` runs the Telegram bot.
func NewChannelStep() Step {
	return NewChoiceStep("Where do you want to ask questions?", []choice{
		{id: channelCLI, title: "Terminal only", desc: "quorum ask"},
		{id: channelTelegram, title: "Terminal and Telegram", desc: "quorum serve runs a bot"},
	}, func(state *InstallState, id string) {
		state.App.EnableTelegram = id == channelTelegram
	})
}

// NewStorageStep chooses the local persistence backend.
func NewStorageStep() Step {
	return NewChoiceStep("Where should ratings and history be stored?", []choice{
		{id: config.StorageSQLite, title: "SQLite", desc: "single database file"},
		{id: config.StorageFile, title: "Plain files", desc: "one JSON file per key"},
	}, func(state *InstallState, id string) {
		state.App.Storage = id
	})
}
