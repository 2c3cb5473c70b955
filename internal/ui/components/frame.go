package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ivrit/internal/ui/theme"
)

// ContentWidth is the shared inner width of the boxes inside a Cabinet of
// frameWidth, clamped to [20, 60].
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 60)
}

// Cabinet centers content in a double-bordered box filling the area.
func Cabinet(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card is a rounded, padded box cw wide.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Padding(1, 2).
		Align(lipgloss.Center).
		Render(content)
}

// Button is a bordered label; the selected one is filled and marked ▸.
func Button(label string, selected bool, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder())
	if !selected {
		return style.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
	}
	return style.
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Gold).
		BorderForeground(theme.Gold).
		Render("▸ " + label)
}
