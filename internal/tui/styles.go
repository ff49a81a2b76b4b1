package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Totarae/tinylink/internal/model"
)

var (
	colorAccent  = lipgloss.Color("#7D56F4")
	colorGray    = lipgloss.Color("#6C6C6C")
	colorSuccess = lipgloss.Color("#2E9E5B")
	colorError   = lipgloss.Color("#D9534F")
	colorWarning = lipgloss.Color("#E0A800")
	colorInfo    = lipgloss.Color("#3B82C4")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			MarginBottom(1)

	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			MarginTop(1)
)

func messageStyle(level model.Level) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch level {
	case model.LevelSuccess:
		return s.Foreground(colorSuccess)
	case model.LevelError:
		return s.Foreground(colorError)
	case model.LevelWarning:
		return s.Foreground(colorWarning)
	default:
		return s.Foreground(colorInfo)
	}
}

func joinHelp(parts []string) string {
	return strings.Join(parts, " • ")
}
