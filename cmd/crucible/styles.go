package main

import "github.com/charmbracelet/lipgloss"

// Severity/decision color coding for terminal rendering, adapted from the
// teacher's bd-examples pass/warn/fail palette to the three critique
// severities and the ⚑ gate.
var (
	blockingStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	}).Bold(true)
	importantStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	})
	minorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	})
	gateStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	}).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	})
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

func severityStyle(s string) lipgloss.Style {
	switch s {
	case "blocking":
		return blockingStyle
	case "important":
		return importantStyle
	default:
		return minorStyle
	}
}
