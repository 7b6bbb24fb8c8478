package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputStep asks for one line of text. An empty answer keeps the
// placeholder's default by skipping apply.
type InputStep struct {
	prompt   string
	input    textinput.Model
	optional bool
	apply    func(state *InstallState, value string) error
	skip     func(state *InstallState) bool
	err      error
}

type inputOption func(*InputStep)

func withSecret() inputOption {
	return func(s *InputStep) {
		s.input.EchoMode = textinput.EchoPassword
		s.input.EchoCharacter = '•'
	}
}

// optional lets an empty answer through without calling apply.
func optional() inputOption {
	return func(s *InputStep) { s.optional = true }
}

func skipWhen(fn func(state *InstallState) bool) inputOption {
	return func(s *InputStep) { s.skip = fn }
}

func NewInputStep(prompt, placeholder string, apply func(*InstallState, string) error, opts ...inputOption) *InputStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = placeholder

	s := &InputStep{prompt: prompt, input: ti, apply: apply}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Skip(state *InstallState) bool {
	return s.skip != nil && s.skip(state)
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		value := strings.TrimSpace(s.input.Value())
		if value == "" && s.optional {
			return nil, nil
		}
		if err := s.apply(state, value); err != nil {
			s.err = err
			return s, nil
		}
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.prompt + "\n\n")
	b.WriteString(s.input.View() + "\n\n")
	if s.err != nil {
		b.WriteString(errorStyle.Render(s.err.Error()) + "\n\n")
	}
	if s.optional {
		b.WriteString("(press enter to keep the default)\n")
	} else {
		b.WriteString("(press enter to confirm)\n")
	}
	return b.String()
}
