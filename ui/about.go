package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderAboutModal shows the version and where this instance talks to and
// keeps its data.
func (a AppView) renderAboutModal() string {
	cfg := a.dataModel.Config

	labelStyle := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true)

	persistence := "in memory only"
	if a.dataModel.Storage.Available() {
		persistence = cfg.DataDir()
	}

	rows := [][2]string{
		{"Version: ", a.dataModel.Version},
		{"Backend: ", cfg.BackendURL},
		{"Data:    ", persistence},
		{"Session: ", a.dataModel.Connection.SessionID()},
	}

	var sb strings.Builder
	sb.WriteString(UserStyle.Render("mcpchat"))
	sb.WriteString("\n\n")
	for _, row := range rows {
		value := row[1]
		if value == "" {
			value = "-"
		}
		sb.WriteString(labelStyle.Render(row[0]))
		sb.WriteString(DimStyle.Render(value))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(DimStyle.Render("Press Esc or Alt+A to close"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(sb.String()))
}
