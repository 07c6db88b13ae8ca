package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/betterman/manviewer/internal/manpage"
)

// Color palette
// - Headings: bold accent, they carry the document structure
// - Options / env / paths: distinct hues so scanning an OPTIONS block works
// - Muted: line numbers and counts
var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
	optionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8EC07C"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#83A598"))
	envStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FABD2F"))
	literalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D3869B"))
	commandStyle = lipgloss.NewStyle().Underline(true)
	matchStyle   = lipgloss.NewStyle().Reverse(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)

func styleFor(kind manpage.Kind) (lipgloss.Style, bool) {
	switch kind {
	case manpage.KindHeading:
		return headingStyle, true
	case manpage.KindOption:
		return optionStyle, true
	case manpage.KindPath:
		return pathStyle, true
	case manpage.KindEnv:
		return envStyle, true
	case manpage.KindLiteral:
		return literalStyle, true
	case manpage.KindCommand:
		return commandStyle, true
	default:
		return lipgloss.Style{}, false
	}
}
