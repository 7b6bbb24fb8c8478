package installer

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/quorum/internal/config"
)

// FinalizationStep reconciles derived values before saving.
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(state *InstallState) {
	if state.Telegram.Token == "" || state.Telegram.OwnerID == 0 {
		state.App.EnableTelegram = false
	}
	if !state.App.EnableTelegram {
		state.Telegram = config.TelegramConfig{}
	}
}
