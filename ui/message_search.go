package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	appmodel "rtui/model"
	"rtui/storage"
)

// searchHit is a history match mapped back onto the displayed transcript.
type searchHit struct {
	storage.MessageMatch
	EntryIdx int
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Search history..."
	ti.CharLimit = 200
	ti.Width = 60
	return ti
}

// searchTranscript fuzzy-matches query against the persisted entries of the
// transcript. Display-only notes are never searched.
func searchTranscript(entries []appmodel.Entry, query string) []searchHit {
	var messages []appmodel.Message
	var entryIdx []int
	for i, e := range entries {
		if e.Note != appmodel.NoteNone || !e.Role.Persisted() {
			continue
		}
		messages = append(messages, appmodel.Message{Role: e.Role, Content: e.Content, Timestamp: e.Timestamp})
		entryIdx = append(entryIdx, i)
	}

	matches := storage.SearchMessages(messages, query)
	hits := make([]searchHit, len(matches))
	for i, m := range matches {
		hits[i] = searchHit{MessageMatch: m, EntryIdx: entryIdx[m.MessageIndex]}
	}
	return hits
}

func renderMessageSearch(searchInput textinput.Model, results []searchHit, selectedIdx, scrollIdx, width, height int) string {
	modalWidth := width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("🔍 Search History")

	var resultsView strings.Builder
	if len(results) == 0 {
		if searchInput.Value() == "" {
			resultsView.WriteString(DimStyle.Render("Type to search your questions and answers..."))
		} else {
			resultsView.WriteString(DimStyle.Render("No matches found"))
		}
	} else {
		// Border, padding, title, input, counter and footer take 12 lines;
		// scroll indicators take 4 more.
		availableLines := height - 16
		if availableLines < 3 {
			availableLines = 3
		}
		maxVisible := availableLines / 4
		if maxVisible < 1 {
			maxVisible = 1
		}

		startIdx := scrollIdx
		endIdx := scrollIdx + maxVisible
		if endIdx > len(results) {
			endIdx = len(results)
		}

		fmt.Fprintf(&resultsView, "Found %d matches:\n\n", len(results))
		if startIdx > 0 {
			resultsView.WriteString(DimStyle.Render(fmt.Sprintf("↑ %d more above", startIdx)) + "\n\n")
		}

		for i := startIdx; i < endIdx; i++ {
			match := results[i]

			roleStyle := UserStyle
			if match.Role == appmodel.RoleAssistant {
				roleStyle = AssistantStyle
			}
			matchText := fmt.Sprintf("%s [%s]\n  %s",
				roleStyle.Render(string(match.Role)),
				match.Timestamp.Format("Jan 2, 3:04 PM"),
				match.Preview,
			)
			if i == selectedIdx {
				matchText = SelectedStyle.Render("> " + matchText)
			} else {
				matchText = "  " + matchText
			}
			resultsView.WriteString(matchText + "\n\n")
		}

		if endIdx < len(results) {
			resultsView.WriteString(DimStyle.Render(fmt.Sprintf("↓ %d more below", len(results)-endIdx)))
		}
	}

	footer := FormatFooter("Type", "to search", "↑/↓", "Navigate", "Enter", "Jump", "Esc", "Close")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		searchInput.View(),
		"",
		resultsView.String(),
		"",
		footer,
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}
