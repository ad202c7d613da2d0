package ui

import (
	"rtui/model"
)

// Message type aliases - these are defined in the model package
type turnDoneMsg = model.TurnDoneMsg
type transcriptChangedMsg = model.TranscriptChangedMsg
type historyClearedMsg = model.HistoryClearedMsg
type reportSavedMsg = model.ReportSavedMsg
type clipboardCopiedMsg = model.ClipboardCopiedMsg
type markdownRenderedMsg = model.MarkdownRenderedMsg
type flashTickMsg = model.FlashTickMsg

// statusClearMsg clears the status line if it still shows the flash with
// the given sequence number.
type statusClearMsg struct {
	seq int
}
