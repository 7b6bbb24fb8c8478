// Package ui holds the terminal styles shared by the CLI and the setup
// wizard.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// ANSI 6 (cyan) reads well on light and dark terminals.
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// ANSI 8 (gray) keeps descriptions secondary.
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

	// BestStyle marks the recommended answer.
	BestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)

	ProviderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
)
