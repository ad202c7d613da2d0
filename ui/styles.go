package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI palette indices. No style sets a background so the terminal's
// transparency is preserved.
var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")
)

var (
	UserStyle      = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	AssistantStyle = lipgloss.NewStyle().Foreground(accentColor)
	DimStyle       = lipgloss.NewStyle().Foreground(dimColor)
	TitleStyle     = lipgloss.NewStyle().Bold(true)
	StatusStyle    = DimStyle

	// Transcript notes
	TraceStyle = DimStyle.Italic(true)
	ErrorStyle = lipgloss.NewStyle().Foreground(dangerColor).Bold(true)

	ReportStyle    = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	SelectedStyle  = ReportStyle
	HighlightStyle = lipgloss.NewStyle().Foreground(highlightColor).Bold(true)
)

// FormatFooter joins key/description pairs, rendering descriptions in bold
// accent blue: FormatFooter("↑/↓", "Navigate", "Esc", "Close").
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	pairs := make([]string, 0, len(parts)/2)
	for i := 0; i+1 < len(parts); i += 2 {
		pairs = append(pairs, parts[i]+" "+descStyle.Render(parts[i+1]))
	}
	return strings.Join(pairs, "  ")
}
