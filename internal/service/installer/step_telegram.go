package installer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/quorum/internal/core"
)

func telegramDisabled(state *InstallState) bool {
	return !state.App.EnableTelegram
}

func NewTelegramTokenStep() Step {
	return NewInputStep("Enter your Telegram Bot Token:", "123456789:ABCDEF...", applyTelegramToken,
		withSecret(), skipWhen(telegramDisabled))
}

func applyTelegramToken(state *InstallState, value string) error {
	if !strings.Contains(value, ":") {
		return fmt.Errorf("%w: a bot token looks like 123456789:ABC...", core.ErrValidation)
	}
	state.Telegram.Token = value
	return nil
}

func NewTelegramOwnerStep() Step {
	return NewInputStep("Enter your Telegram User ID (owner):", "123456789", applyTelegramOwner,
		skipWhen(telegramDisabled))
}

func applyTelegramOwner(state *InstallState, value string) error {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("%w: the owner id is a positive number", core.ErrValidation)
	}
	state.Telegram.OwnerID = id
	return nil
}
