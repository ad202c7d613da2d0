package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"rtui/config"
	appmodel "rtui/model"
)

// chromeHeight is the number of rows around the viewport: title, separator,
// status line, three input rows and the key hint bar.
const chromeHeight = 7

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	showHelp bool

	// Mode of the turn in flight, for the busy indicator
	pendingMode appmodel.TurnMode

	// Markdown cache per transcript entry index
	rendered map[int]renderedEntry
	pending  map[int]bool

	// First viewport line of each transcript entry
	entryOffsets []int

	// History search overlay
	showSearch        bool
	searchInput       textinput.Model
	searchResults     []searchHit
	selectedSearchIdx int
	searchScrollIdx   int

	highlightedEntryIdx int
	highlightFlashCount int

	// Status line flash
	status        string
	statusIsError bool
	statusSeq     int
}

func NewAppView(dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask anything. Start with \"research\" to search the web..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter inserts a newline; Enter is handled as submit
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	return AppView{
		dataModel:           dataModel,
		viewport:            viewport.New(0, 0),
		textarea:            ta,
		spinner:             sp,
		rendered:            make(map[int]renderedEntry),
		pending:             make(map[int]bool),
		searchInput:         newSearchInput(),
		highlightedEntryIdx: -1,
	}
}

func (a AppView) Init() tea.Cmd {
	// Markdown waits for the first WindowSizeMsg so it renders at the right width
	return tea.Batch(
		textarea.Blink,
		a.dataModel.WaitForTranscript(),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading rtui..."
	}

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	if a.showSearch {
		return renderMessageSearch(a.searchInput, a.searchResults, a.selectedSearchIdx, a.searchScrollIdx, a.width, a.height)
	}

	// Title bar: "rtui - Provider - model"
	provider := a.dataModel.Provider
	title := AssistantStyle.Render("rtui") +
		TitleStyle.Render(fmt.Sprintf(" - %s", config.ProviderDisplayName(provider.Name()))) +
		UserStyle.Render(fmt.Sprintf(" - %s", provider.GetModel()))
	if a.dataModel.Report() != nil {
		title += ReportStyle.Render(" | 📄 " + appmodel.ReportFileName)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		a.viewport.View(),
		a.statusLine(),
		a.textarea.View(),
		a.keyHints(),
	)
}

func (a AppView) statusLine() string {
	var prefix, text string
	switch {
	case a.status != "":
		text = a.status
	case a.dataModel.Busy && a.pendingMode == appmodel.TurnResearch:
		prefix, text = a.spinner.View()+" ", "Researching..."
	case a.dataModel.Busy:
		prefix, text = a.spinner.View()+" ", "Thinking..."
	}

	if a.width > 2 {
		text = runewidth.Truncate(text, a.width-2, "…")
	}
	if a.statusIsError {
		return ErrorStyle.Render(text)
	}
	return prefix + DimStyle.Render(text)
}

func (a AppView) keyHints() string {
	kb := a.dataModel.Config.KeyBindings
	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	hints := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s  %s %s  %s %s",
		kb.Display("submit"), descStyle.Render("Send"),
		kb.Display("save_report"), descStyle.Render("Save report"),
		kb.Display("copy_report"), descStyle.Render("Copy"),
		kb.Display("cycle_model"), descStyle.Render("Model"),
		kb.Display("help"), descStyle.Render("Help"),
		kb.Display("quit"), descStyle.Render("Quit"),
	)
	return StatusStyle.Render(hints)
}
