package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrorModal is a standalone program shown when startup cannot continue,
// such as a missing API key. Any of Enter, Esc or Ctrl+C quits.
type ErrorModal struct {
	title         string
	message       string
	width, height int
}

func NewErrorModal(title, message string) ErrorModal {
	return ErrorModal{title: title, message: message}
}

func (m ErrorModal) Init() tea.Cmd { return nil }

func (m ErrorModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ErrorModal) View() string {
	if m.width < 20 || m.height < 10 {
		return m.title + "\n\n" + m.message + "\n\nPress Enter to quit"
	}

	boxWidth := min(64, m.width-8)
	section := lipgloss.NewStyle().Width(boxWidth).Align(lipgloss.Center)
	divider := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor)

	body := make([]string, 0, strings.Count(m.message, "\n")+3)
	body = append(body, "")
	for _, line := range strings.Split(m.message, "\n") {
		body = append(body, section.Render(line))
	}
	body = append(body, "")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		section.Bold(true).Foreground(dangerColor).Render("⚠  "+m.title),
		divider.Render(strings.Join(body, "\n")),
		divider.Inherit(section).Foreground(dimColor).Render(FormatFooter("Enter", "Quit")),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
