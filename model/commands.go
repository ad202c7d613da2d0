package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"rtui/config"
)

// SubmitTurn runs one turn in the background. Only one turn runs at a time;
// callers must not submit while Busy.
func (m *Model) SubmitTurn(input string) tea.Cmd {
	if m.Busy {
		return nil
	}
	m.Busy = true

	ctx := m.beginTurn()
	assistant := m.Assistant
	session := m.Session
	return func() tea.Msg {
		defer m.endTurn()
		outcome, err := assistant.HandleTurn(ctx, session, input)
		return TurnDoneMsg{Outcome: outcome, Err: err}
	}
}

// FinishTurn records a TurnDoneMsg.
func (m *Model) FinishTurn(msg TurnDoneMsg) {
	m.Busy = false
	m.LastOutcome = nil
	if msg.Err == nil {
		m.LastOutcome = msg.Outcome
	}
}

// WaitForTranscript blocks until the session changes.
func (m *Model) WaitForTranscript() tea.Cmd {
	updates := m.Session.Updates()
	return func() tea.Msg {
		<-updates
		return TranscriptChangedMsg{}
	}
}

func (m *Model) ClearHistory() tea.Cmd {
	session := m.Session
	m.LastOutcome = nil
	return func() tea.Msg {
		return HistoryClearedMsg{Err: session.Clear(context.Background())}
	}
}

// SaveReport writes the offered report to the configured report directory.
func (m *Model) SaveReport() tea.Cmd {
	report := m.Report()
	if report == nil || m.Reports == nil {
		return func() tea.Msg {
			return ReportSavedMsg{Err: errors.New("no research report to save")}
		}
	}

	dir := m.Config.ReportDir()
	writer := m.Reports
	return func() tea.Msg {
		path, err := writer.SaveReport(dir, report)
		if err != nil {
			return ReportSavedMsg{Err: fmt.Errorf("failed to save report: %w", err)}
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] Saved report to %s", path)
		}
		return ReportSavedMsg{Path: path}
	}
}

// CopyToClipboard copies the offered report, or the last answer when there
// is none.
func (m *Model) CopyToClipboard() tea.Cmd {
	what, text := "answer", m.LastAnswer()
	if report := m.Report(); report != nil {
		what, text = report.FileName, report.Content
	}
	if text == "" {
		return func() tea.Msg {
			return ClipboardCopiedMsg{Err: errors.New("nothing to copy")}
		}
	}
	return func() tea.Msg {
		return ClipboardCopiedMsg{What: what, Err: clipboard.WriteAll(text)}
	}
}
