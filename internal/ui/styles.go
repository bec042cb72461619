package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles of the UI.
type Styles struct {
	Title    lipgloss.Style
	Name     lipgloss.Style
	Password lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Chip     lipgloss.Style
	ChipOn   lipgloss.Style
	Dialog   lipgloss.Style
}

// DefaultStyles returns the indigo palette used across the UI.
func DefaultStyles() Styles {
	indigo := lipgloss.Color("63")
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(indigo).MarginBottom(1),
		Name:     lipgloss.NewStyle().Bold(true).Foreground(indigo),
		Password: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Selected: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(indigo).Padding(0, 1),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		Chip:     lipgloss.NewStyle().Foreground(indigo).Padding(0, 1),
		ChipOn:   lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(indigo).Padding(0, 1),
		Dialog:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(indigo).Padding(1, 2),
	}
}
