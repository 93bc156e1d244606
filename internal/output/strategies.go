package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// StrategyRow is one line of the strategy listing.
type StrategyRow struct {
	Label       string
	Method      string
	Description string
}

// WriteStrategies prints rows as aligned columns. Styles apply only when w is
// a terminal and noColor is false.
func WriteStrategies(w io.Writer, rows []StrategyRow, noColor bool) error {
	renderer := lipgloss.NewRenderer(w)
	if noColor || !IsTerminal(w) {
		renderer.SetColorProfile(termenv.Ascii)
	}

	width := 0
	for _, row := range rows {
		width = max(width, lipgloss.Width(row.Label))
	}

	label := renderer.NewStyle().Width(width + 2).Foreground(lipgloss.Color("6"))
	method := renderer.NewStyle().Width(6).Bold(true)
	description := renderer.NewStyle().Foreground(lipgloss.Color("8"))

	for _, row := range rows {
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			label.Render(row.Label),
			method.Render(row.Method),
			description.Render(row.Description),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
