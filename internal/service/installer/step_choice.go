package installer

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type choice struct {
	id    string
	title string
	desc  string
}

// ChoiceStep picks one of a fixed set of options.
type ChoiceStep struct {
	prompt  string
	choices []choice
	cursor  int
	apply   func(state *InstallState, id string)
}

func NewChoiceStep(prompt string, choices []choice, apply func(*InstallState, string)) *ChoiceStep {
	return &ChoiceStep{prompt: prompt, choices: choices, apply: apply}
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.choices)-1 {
			s.cursor++
		}
	case "enter":
		s.apply(state, s.choices[s.cursor].id)
		return nil, nil
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.prompt + "\n\n")
	for i, c := range s.choices {
		desc := ""
		if c.desc != "" {
			desc = descStyle.Render(" · " + c.desc)
		}
		if s.cursor == i {
			b.WriteString(selStyle.Render("❯ "+c.title) + desc + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+c.title) + desc + "\n")
		}
	}
	b.WriteString("\n(↑/↓ to move, enter to select, ctrl+c to quit)\n")
	return b.String()
}
