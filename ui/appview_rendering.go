package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"rtui/config"
	appmodel "rtui/model"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

const codeBar = "┃"

// renderedEntry caches the markdown rendering of one transcript entry.
type renderedEntry struct {
	source string
	width  int
	text   string
}

// updateViewportContent redraws the transcript and returns render commands
// for assistant entries that have no up to date markdown yet.
func (a *AppView) updateViewportContent(gotoBottom bool) tea.Cmd {
	entries := a.dataModel.Session.Transcript()

	var content strings.Builder
	var cmds []tea.Cmd
	a.entryOffsets = a.entryOffsets[:0]

	for i, entry := range entries {
		a.entryOffsets = append(a.entryOffsets, strings.Count(content.String(), "\n"))

		highlightPrefix := ""
		if i == a.highlightedEntryIdx && a.highlightFlashCount%2 == 1 {
			highlightPrefix = HighlightStyle.Render(">>> ")
		}
		timestamp := DimStyle.Render(entry.Timestamp.Format("[15:04]"))

		switch entry.Role {
		case appmodel.RoleUser:
			content.WriteString(formatUserMessage(highlightPrefix, timestamp, UserStyle.Render("You"), entry.Content))

		case appmodel.RoleAssistant:
			body := entry.Content
			if cached, ok := a.rendered[i]; ok && cached.source == entry.Content && cached.width == a.width {
				body = cached.text
			} else if !a.pending[i] {
				a.pending[i] = true
				cmds = append(cmds, renderMarkdownAsync(i, entry.Content, a.width))
			}
			fmt.Fprintf(&content, "%s%s %s\n%s\n\n", highlightPrefix, timestamp, AssistantStyle.Render("Assistant"), body)

		default:
			content.WriteString(formatNote(highlightPrefix, timestamp, entry))
		}
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
	return tea.Batch(cmds...)
}

func formatNote(highlightPrefix, timestamp string, entry appmodel.Entry) string {
	switch entry.Note {
	case appmodel.NoteTrace:
		return fmt.Sprintf("%s%s %s\n\n", highlightPrefix, timestamp, TraceStyle.Render(entry.Content))
	case appmodel.NoteError:
		return fmt.Sprintf("%s%s %s\n\n", highlightPrefix, timestamp, ErrorStyle.Render("❌ "+entry.Content))
	default:
		return fmt.Sprintf("%s%s %s\n%s\n\n", highlightPrefix, timestamp, DimStyle.Render("System"), entry.Content)
	}
}

func formatUserMessage(highlightPrefix, timestamp, role, content string) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + codeBar + reset

	var result strings.Builder
	fmt.Fprintf(&result, "%s%s %s %s\n", highlightPrefix, bar, timestamp, role)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(&result, "%s %s\n", bar, line)
	}
	result.WriteString("\n")
	return result.String()
}

func renderMarkdownAsync(entryIdx int, content string, width int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		rendered := renderMarkdown(content, width)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Rendered entry %d (%d chars) in %v", entryIdx, len(content), time.Since(start))
		}
		return markdownRenderedMsg{
			EntryIndex: entryIdx,
			Source:     content,
			Width:      width,
			Rendered:   rendered,
		}
	}
}

// renderMarkdown renders assistant markdown for a terminal of the given
// width. Autolink stays off so URLs remain plain text.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}
	content = preprocessLinks(content)

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width-4, 0)
	doc := p.Parse([]byte(content))
	rendered := gomarkdown.Render(doc, r)

	return strings.TrimRight(postProcessMarkdown(string(rendered), width), "\n")
}

func postProcessMarkdown(rendered string, width int) string {
	rendered = fixInlineCode(rendered)
	rendered = fixMarkdownLinks(rendered)
	return frameCodeBlocks(rendered, width)
}

// preprocessLinks reduces [text](url) to the bare url.
func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

// fixInlineCode swaps the blue background of inline code for red text.
func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func fixMarkdownLinks(s string) string {
	redColor := "\x1b[31m"
	reset := "\x1b[0m"

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !strings.Contains(line, codeBar) {
			lines[i] = urlRegex.ReplaceAllString(line, redColor+"$1"+reset)
		}
	}
	return strings.Join(lines, "\n")
}

// frameCodeBlocks replaces the renderer's gutter on code lines with a
// labelled horizontal frame.
func frameCodeBlocks(s string, width int) string {
	darkGray := "\x1b[90m"
	reset := "\x1b[0m"
	lineLen := width - 4
	if lineLen < 8 {
		lineLen = 8
	}

	label := "[code]"
	leftLen := (lineLen - len(label)) / 2
	top := darkGray + strings.Repeat("━", leftLen) + reset + label + darkGray + strings.Repeat("━", lineLen-len(label)-leftLen) + reset
	bottom := darkGray + strings.Repeat("━", lineLen) + reset

	var result []string
	inCodeBlock := false
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, codeBar) {
			if !inCodeBlock {
				inCodeBlock = true
				result = append(result, "", top, "")
			}
			result = append(result, stripCodeBlockPrefix(line))
			continue
		}
		if inCodeBlock {
			result = append(result, "", bottom, "")
			inCodeBlock = false
		}
		result = append(result, line)
	}
	if inCodeBlock {
		result = append(result, "", bottom, "")
	}
	return strings.Join(result, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, codeBar)
	if idx < 0 {
		return line
	}
	after := idx + len(codeBar)
	if after < len(line) && line[after] == ' ' {
		after++
	}
	return line[after:]
}
