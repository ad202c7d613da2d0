package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"rtui/config"
	appmodel "rtui/model"
)

const (
	statusFlashDuration = 4 * time.Second
	flashTickInterval   = 300 * time.Millisecond
	flashTicks          = 6
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		widthChanged := a.width != msg.Width
		a.width = msg.Width
		a.height = msg.Height

		a.viewport.Width = a.width
		a.viewport.Height = max(a.height-chromeHeight, 1)
		a.textarea.SetWidth(a.width)
		a.searchInput.Width = min(a.width-12, 80)

		if widthChanged {
			a.pending = make(map[int]bool)
		}
		a.ready = true
		cmd := a.updateViewportContent(a.highlightedEntryIdx < 0)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)

	case transcriptChangedMsg:
		cmd := a.updateViewportContent(a.highlightedEntryIdx < 0)
		return a, tea.Batch(cmd, a.dataModel.WaitForTranscript())

	case turnDoneMsg:
		a.dataModel.FinishTurn(msg)
		a.textarea.Focus()
		switch {
		case errors.Is(msg.Err, context.Canceled):
			cmd := a.flash("Cancelled", false)
			return a, cmd
		case msg.Err != nil:
			// The error is already in the transcript as a note
			cmd := a.flash("Turn failed", true)
			return a, cmd
		case msg.Outcome != nil && msg.Outcome.Report != nil:
			kb := a.dataModel.Config.KeyBindings
			text := fmt.Sprintf("📄 %s ready: %s to save, %s to copy",
				msg.Outcome.Report.FileName, kb.Display("save_report"), kb.Display("copy_report"))
			if msg.Outcome.Forced {
				text += fmt.Sprintf(" (stopped after %d rounds)", msg.Outcome.Rounds)
			}
			cmd := a.flash(text, false)
			return a, cmd
		}
		return a, nil

	case markdownRenderedMsg:
		delete(a.pending, msg.EntryIndex)
		a.rendered[msg.EntryIndex] = renderedEntry{source: msg.Source, width: msg.Width, text: msg.Rendered}
		cmd := a.updateViewportContent(a.highlightedEntryIdx < 0)
		return a, cmd

	case reportSavedMsg:
		if msg.Err != nil {
			cmd := a.flash(msg.Err.Error(), true)
			return a, cmd
		}
		cmd := a.flash("Saved "+msg.Path, false)
		return a, cmd

	case clipboardCopiedMsg:
		if msg.Err != nil {
			cmd := a.flash("Copy failed: "+msg.Err.Error(), true)
			return a, cmd
		}
		cmd := a.flash("Copied "+msg.What+" to clipboard", false)
		return a, cmd

	case historyClearedMsg:
		a.rendered = make(map[int]renderedEntry)
		a.pending = make(map[int]bool)
		if msg.Err != nil {
			cmd := a.flash("Failed to clear history: "+msg.Err.Error(), true)
			return a, cmd
		}
		cmd := a.updateViewportContent(true)
		flashCmd := a.flash("History cleared", false)
		return a, tea.Batch(cmd, flashCmd)

	case statusClearMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
			a.statusIsError = false
		}
		return a, nil

	case flashTickMsg:
		if a.highlightFlashCount > 0 && a.highlightFlashCount < flashTicks {
			a.highlightFlashCount++
			cmd := a.updateViewportContent(false)
			return a, tea.Batch(cmd, flashTick())
		}
		a.highlightedEntryIdx = -1
		a.highlightFlashCount = 0
		cmd := a.updateViewportContent(false)
		return a, cmd

	case spinner.TickMsg:
		if !a.dataModel.Busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := a.dataModel.Config.KeyBindings
	pressed := msg.String()

	if pressed == kb.Key("quit") {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Quit requested (busy=%v)", a.dataModel.Busy)
		}
		a.dataModel.Quitting = true
		a.dataModel.CancelTurn()
		return a, tea.Quit
	}

	if a.showHelp {
		if pressed == kb.Key("help") || pressed == "esc" {
			a.showHelp = false
		}
		return a, nil
	}

	if a.showSearch {
		return a.handleSearchKey(msg)
	}

	switch pressed {
	case kb.Key("help"):
		a.showHelp = true
		return a, nil

	case kb.Key("search"):
		return a.openSearch("")

	case kb.Key("save_report"):
		return a, a.dataModel.SaveReport()

	case kb.Key("copy_report"):
		return a, a.dataModel.CopyToClipboard()

	case kb.Key("cycle_model"):
		if a.dataModel.Busy {
			cmd := a.flash("Model can't change while a turn is running", true)
			return a, cmd
		}
		next := a.dataModel.CycleModel()
		cmd := a.flash("Model: "+next, false)
		return a, cmd

	case kb.Key("clear_history"):
		if a.dataModel.Busy {
			cmd := a.flash("History can't be cleared while a turn is running", true)
			return a, cmd
		}
		return a, a.dataModel.ClearHistory()

	case kb.Key("clear_input"):
		a.textarea.Reset()
		return a, nil

	case kb.Key("scroll_up"):
		a.viewport.SetYOffset(a.viewport.YOffset - a.viewport.Height)
		return a, nil

	case kb.Key("scroll_down"):
		a.viewport.SetYOffset(a.viewport.YOffset + a.viewport.Height)
		return a, nil

	case kb.Key("submit"):
		return a.submit()
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

// submit sends the input as a turn, or runs it as a slash command.
func (a AppView) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimRight(a.textarea.Value(), " \t\r\n")
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return a, nil
	}
	if a.dataModel.Busy {
		cmd := a.flash("Wait for the current answer to finish", true)
		return a, cmd
	}

	switch {
	case trimmed == "/clear":
		a.textarea.Reset()
		return a, a.dataModel.ClearHistory()
	case trimmed == "/help":
		a.textarea.Reset()
		a.showHelp = true
		return a, nil
	case trimmed == "/find" || strings.HasPrefix(trimmed, "/find "):
		a.textarea.Reset()
		return a.openSearch(strings.TrimSpace(strings.TrimPrefix(trimmed, "/find")))
	}

	a.textarea.Reset()
	a.status = ""
	a.statusIsError = false
	a.highlightedEntryIdx = -1
	a.pendingMode = appmodel.Classify(input)

	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] Submitting %s turn (%d chars)", a.pendingMode, len(input))
	}
	return a, tea.Batch(a.dataModel.SubmitTurn(input), a.spinner.Tick)
}

func (a AppView) openSearch(query string) (tea.Model, tea.Cmd) {
	a.showSearch = true
	a.searchInput.SetValue(query)
	a.searchInput.CursorEnd()
	a.refreshSearch()
	a.textarea.Blur()
	cmd := a.searchInput.Focus()
	return a, cmd
}

func (a *AppView) refreshSearch() {
	a.searchResults = searchTranscript(a.dataModel.Session.Transcript(), a.searchInput.Value())
	a.selectedSearchIdx = 0
	a.searchScrollIdx = 0
}

func (a AppView) closeSearch() AppView {
	a.showSearch = false
	a.searchInput.Blur()
	a.textarea.Focus()
	return a
}

func (a AppView) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a.closeSearch(), nil

	case "up":
		if a.selectedSearchIdx > 0 {
			a.selectedSearchIdx--
			if a.selectedSearchIdx < a.searchScrollIdx {
				a.searchScrollIdx = a.selectedSearchIdx
			}
		}
		return a, nil

	case "down":
		if a.selectedSearchIdx < len(a.searchResults)-1 {
			a.selectedSearchIdx++
			if visible := max((a.height-16)/4, 1); a.selectedSearchIdx >= a.searchScrollIdx+visible {
				a.searchScrollIdx = a.selectedSearchIdx - visible + 1
			}
		}
		return a, nil

	case "enter":
		if len(a.searchResults) == 0 {
			return a, nil
		}
		hit := a.searchResults[a.selectedSearchIdx]
		a = a.closeSearch()
		cmd := a.jumpToEntry(hit.EntryIdx)
		return a, cmd
	}

	var cmd tea.Cmd
	before := a.searchInput.Value()
	a.searchInput, cmd = a.searchInput.Update(msg)
	if a.searchInput.Value() != before {
		a.refreshSearch()
	}
	return a, cmd
}

// jumpToEntry scrolls the transcript to an entry and flashes it.
func (a *AppView) jumpToEntry(idx int) tea.Cmd {
	a.highlightedEntryIdx = idx
	a.highlightFlashCount = 1
	cmd := a.updateViewportContent(false)
	if idx >= 0 && idx < len(a.entryOffsets) {
		a.viewport.SetYOffset(a.entryOffsets[idx])
	}
	return tea.Batch(cmd, flashTick())
}

// flash shows text on the status line until it is replaced or expires.
func (a *AppView) flash(text string, isError bool) tea.Cmd {
	a.statusSeq++
	a.status = text
	a.statusIsError = isError
	seq := a.statusSeq
	return tea.Tick(statusFlashDuration, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

func flashTick() tea.Cmd {
	return tea.Tick(flashTickInterval, func(time.Time) tea.Msg {
		return flashTickMsg{}
	})
}
