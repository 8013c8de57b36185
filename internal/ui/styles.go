// Package ui renders lexi's terminal output.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles shared by the commands
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	ActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))
)
