package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	category  lipgloss.Style
	label     lipgloss.Style
	detail    lipgloss.Style
	command   lipgloss.Style
	ok        lipgloss.Style
	warning   lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
	pendingAt lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		category:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
		label:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		command:   lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		ok:        lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		warning:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:   lipgloss.NewStyle().MarginTop(1),
		empty:     lipgloss.NewStyle().Faint(true),
		pendingAt: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
