package model

// TurnDoneMsg is sent when a submitted turn finishes.
type TurnDoneMsg struct {
	Outcome *TurnOutcome
	Err     error
}

// TranscriptChangedMsg is sent whenever the session transcript changes.
type TranscriptChangedMsg struct{}

type HistoryClearedMsg struct {
	Err error
}

type ReportSavedMsg struct {
	Path string
	Err  error
}

type ClipboardCopiedMsg struct {
	What string
	Err  error
}

// MarkdownRenderedMsg carries a rendered transcript entry. Source and Width
// identify what was rendered so stale results can be dropped.
type MarkdownRenderedMsg struct {
	EntryIndex int
	Source     string
	Width      int
	Rendered   string
}

type FlashTickMsg struct{}
