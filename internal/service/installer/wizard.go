// Package installer is the interactive first-run setup.
package installer

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/quorum/internal/service/ui"
)

var (
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	descStyle  = ui.DescStyle
	errorStyle = ui.ErrorStyle
)

// ErrInterrupted is returned when the user quits the wizard.
var ErrInterrupted = errors.New("quorum setup interrupted")

// Step is a single screen of the wizard. Update returns nil to move on.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

// skipper is implemented by steps that do not apply to every setup.
type skipper interface {
	Skip(state *InstallState) bool
}

func getSteps() []Step {
	return []Step{
		NewBaseURLStep(),
		NewUserIDStep(),
		NewLabelsStep(),
		NewStorageStep(),
		NewChannelStep(),
		NewTelegramTokenStep(),
		NewTelegramOwnerStep(),
		NewFinalizationStep(),
		NewSaveEnvStep(),
		NewInitializeFilesStep(),
	}
}

type nextMsg struct{}

type model struct {
	steps       []Step
	currentStep int
	state       *InstallState
	quitting    bool
	width       int
	height      int
}

func newModel(steps []Step, state *InstallState) model {
	return model{steps: steps, state: state}
}

func (m model) Init() tea.Cmd {
	if len(m.steps) == 0 {
		return tea.Quit
	}
	return m.steps[0].Init()
}

// enter skips steps that do not apply and initializes the current one.
func (m *model) enter() tea.Cmd {
	for m.currentStep < len(m.steps) {
		s, ok := m.steps[m.currentStep].(skipper)
		if !ok || !s.Skip(m.state) {
			return m.steps[m.currentStep].Init()
		}
		m.currentStep++
	}
	return tea.Quit
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.currentStep >= len(m.steps) {
		return m, tea.Quit
	}

	next, cmd := m.steps[m.currentStep].Update(msg, m.state, m.width, m.height)
	if next == nil {
		m.currentStep++
		return m, m.enter()
	}

	m.steps[m.currentStep] = next
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return "Setup cancelled.\n"
	}
	if m.currentStep >= len(m.steps) {
		return "Configuration complete!\n"
	}

	progress := ui.DescStyle.Render(fmt.Sprintf("step %d of %d", m.currentStep+1, len(m.steps)))
	return ui.TitleStyle.Render("Setting up Quorum") + "\n" + progress + "\n\n" + m.steps[m.currentStep].View(m.state)
}

// RunWizard runs the setup TUI and writes its result under runtimePath.
func RunWizard(runtimePath string, overwrite bool) (*InstallState, error) {
	state := NewInstallState(runtimePath)
	state.Overwrite = overwrite

	p := tea.NewProgram(newModel(getSteps(), state), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	final := m.(model)
	if final.quitting {
		return nil, ErrInterrupted
	}
	return final.state, nil
}
