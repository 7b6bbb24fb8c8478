package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/quorum/internal/config"
	"github.com/sandevgo/quorum/pkg/env"
)

// ErrEnvExists is returned when .env is present and overwriting was not
// requested.
var ErrEnvExists = errors.New(".env already exists")

// SaveEnvStep writes the collected configuration to <runtime>/.env.
type SaveEnvStep struct {
	err   error
	path  string
	saved bool
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}
	path, err := saveEnv(state)
	if err != nil {
		s.err = err
		return s, nil
	}
	s.path = path
	s.saved = true
	return nil, nil
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved to " + s.path + "\n"
	}
	return "Saving configuration...\n"
}

func saveEnv(state *InstallState) (string, error) {
	if err := os.MkdirAll(state.RuntimePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(state.RuntimePath, ".env")
	if _, err := os.Stat(envPath); err == nil && !state.Overwrite {
		return "", fmt.Errorf("%w at %s", ErrEnvExists, envPath)
	}

	app, err := env.MarshalEnv(&state.App)
	if err != nil {
		return "", err
	}
	tg, err := env.MarshalEnv(&state.Telegram)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(envPath, []byte(app+tg), 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", envPath, err)
	}
	return envPath, nil
}

// InitializeFilesStep writes default preferences unless the file exists.
type InitializeFilesStep struct {
	err  error
	done bool
}

func NewInitializeFilesStep() Step {
	return &InitializeFilesStep{}
}

func (s *InitializeFilesStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *InitializeFilesStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.done {
		return nil, nil
	}
	if err := initPreferences(state); err != nil {
		s.err = err
		return s, nil
	}
	s.done = true
	return nil, nil
}

func (s *InitializeFilesStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return "Preferences initialized.\n"
	}
	return "Initializing preferences...\n"
}

func initPreferences(state *InstallState) error {
	path := filepath.Join(state.RuntimePath, config.PreferencesFileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return config.NewPreferencesFile(path).Save(config.DefaultPreferences())
}
