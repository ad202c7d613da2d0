package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	kb := a.dataModel.Config.KeyBindings

	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)
	blue := lipgloss.NewStyle().Foreground(accentColor)

	title := green.Render("rtui - Keyboard Shortcuts")

	actions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Actions"),
		fmt.Sprintf("• %-13s Send message", kb.Display("submit")),
		"• Alt+Enter     New line",
		fmt.Sprintf("• %-13s Save report", kb.Display("save_report")),
		fmt.Sprintf("• %-13s Copy report/answer", kb.Display("copy_report")),
		fmt.Sprintf("• %-13s Next model", kb.Display("cycle_model")),
		fmt.Sprintf("• %-13s Clear input", kb.Display("clear_input")),
		fmt.Sprintf("• %-13s Clear history", kb.Display("clear_history")),
		fmt.Sprintf("• %-13s Search history", kb.Display("search")),
		fmt.Sprintf("• %-13s Scroll up", kb.Display("scroll_up")),
		fmt.Sprintf("• %-13s Scroll down", kb.Display("scroll_down")),
		fmt.Sprintf("• %-13s Toggle this help", kb.Display("help")),
		fmt.Sprintf("• %-13s Quit", kb.Display("quit")),
	)

	commands := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Commands"),
		"• research ...  Research with tools",
		"• /find <text>  Search history",
		"• /clear        Clear history",
		"",
		blue.Render("## Tips"),
		"• Start with \"research\" to get",
		"  a downloadable report",
		"• Text selection works! (Mouse)",
	)

	columnStyle := lipgloss.NewStyle().Width(40).PaddingLeft(4)
	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(actions),
		"  ",
		columnStyle.Render(commands),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render(fmt.Sprintf("Press %s or Esc to close this help", kb.Display("help")))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, helpBox.Render(content))
}
