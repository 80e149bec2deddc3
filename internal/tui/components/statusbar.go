package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/homeloan/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// an optional status message on the right.
func RenderStatusBar(width int, message string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Background).
		Width(width)

	left := " [?]help  [n]ew  [q]uit"
	right := ""
	if message != "" {
		right = message + " "
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
