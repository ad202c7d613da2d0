package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtui/config"
	appmodel "rtui/model"
	"rtui/provider/testutil"
	"rtui/research"
	"rtui/storage"
)

func newTestView(t *testing.T, provider appmodel.Provider) AppView {
	t.Helper()

	cfg := &config.Config{
		ProviderType:    config.ProviderOpenAI,
		DefaultModel:    "m1",
		ModelChoices:    []string{"m1", "m2"},
		ReportDirectory: t.TempDir(),
		KeyBindings:     config.DefaultKeybindings(),
	}
	session, err := appmodel.NewSession(context.Background(), nil)
	require.NoError(t, err)

	assistant := research.NewAssistant(provider, nil, 0)
	dataModel := appmodel.NewModel(cfg, provider, session, assistant, storage.NewReportExporter(), "test")

	a := NewAppView(dataModel)
	a, _ = update(a, tea.WindowSizeMsg{Width: 100, Height: 30})
	return a
}

func update(a AppView, msg tea.Msg) (AppView, tea.Cmd) {
	m, cmd := a.Update(msg)
	return m.(AppView), cmd
}

// runFor executes cmd, descending into batches, and returns the first message
// of type T. Only use it on commands that do not sleep.
func runFor[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	var zero T
	if cmd == nil {
		t.Fatalf("expected a command producing %T", zero)
	}
	switch msg := cmd().(type) {
	case T:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if found, ok := tryRun[T](c); ok {
				return found
			}
		}
	}
	t.Fatalf("command did not produce %T", zero)
	return zero
}

func tryRun[T tea.Msg](cmd tea.Cmd) (T, bool) {
	switch msg := cmd().(type) {
	case T:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if found, ok := tryRun[T](c); ok {
				return found, true
			}
		}
	}
	var zero T
	return zero, false
}

func submit(t *testing.T, a AppView, input string) (AppView, tea.Cmd) {
	t.Helper()
	a.textarea.SetValue(input)
	return update(a, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestSubmitPlainTurn(t *testing.T) {
	a := newTestView(t, testutil.NewMockProvider("m1"))

	a, cmd := submit(t, a, "hello there")
	assert.True(t, a.dataModel.Busy)
	assert.Equal(t, appmodel.TurnPlain, a.pendingMode)
	assert.Empty(t, a.textarea.Value())
	assert.Contains(t, a.View(), "Thinking...")

	done := runFor[turnDoneMsg](t, cmd)
	require.NoError(t, done.Err)
	assert.Equal(t, "Mock response", done.Outcome.Text)

	a, _ = update(a, done)
	a, _ = update(a, transcriptChangedMsg{})
	assert.False(t, a.dataModel.Busy)
	assert.Nil(t, a.dataModel.Report())
	assert.Empty(t, a.status)

	view := a.View()
	assert.Contains(t, view, "hello there")
	assert.Contains(t, view, "Mock response")
}

func TestSubmitIgnoredWhileBusy(t *testing.T) {
	a := newTestView(t, testutil.NewMockProvider("m1"))
	a.dataModel.Busy = true

	a, cmd := submit(t, a, "second question")
	assert.NotNil(t, cmd)
	assert.True(t, a.statusIsError)
	assert.Equal(t, "second question", a.textarea.Value())
	assert.Len(t, a.dataModel.Session.History(), 0)
}

func TestSubmitEmptyInput(t *testing.T) {
	a := newTestView(t, testutil.NewMockProvider("m1"))

	a, cmd := submit(t, a, "  \n ")
	assert.Nil(t, cmd)
	assert.False(t, a.dataModel.Busy)
}

func TestResearchTurnOffersReport(t *testing.T) {
	provider := testutil.NewScriptedProvider(
		testutil.Step{Response: testutil.FinalResponse("r1", "Apples are red.")},
	)
	a := newTestView(t, provider)

	a, cmd := submit(t, a, "Research apples")
	assert.Equal(t, appmodel.TurnResearch, a.pendingMode)
	assert.Contains(t, a.View(), "Researching...")

	done := runFor[turnDoneMsg](t, cmd)
	require.NoError(t, done.Err)
	a, _ = update(a, done)

	require.NotNil(t, a.dataModel.Report())
	assert.Contains(t, a.status, "research_report.txt ready: Ctrl+S to save")
	assert.Contains(t, a.View(), "📄 research_report.txt")

	a, cmd = update(a, tea.KeyMsg{Type: tea.KeyCtrlS})
	saved := runFor[reportSavedMsg](t, cmd)
	require.NoError(t, saved.Err)
	assert.Equal(t, filepath.Join(a.dataModel.Config.ReportDirectory, "research_report.txt"), saved.Path)

	data, err := os.ReadFile(saved.Path)
	require.NoError(t, err)
	assert.Equal(t, "Apples are red.", string(data))

	a, _ = update(a, saved)
	assert.Equal(t, "Saved "+saved.Path, a.status)
	assert.False(t, a.statusIsError)
}

func TestSaveWithoutReport(t *testing.T) {
	a := newTestView(t, testutil.NewMockProvider("m1"))

	a, cmd := update(a, tea.KeyMsg{Type: tea.KeyCtrlS})
	saved := runFor[reportSavedMsg](t, cmd)
	require.Error(t, saved.Err)

	a, _ = update(a, saved)
	assert.True(t, a.statusIsError)
}

func TestClearCommand(t *testing.T) {
	a := newTestView(t, testutil.NewMockProvider("m1"))
	ctx := context.Background()
	require.NoError(t, a.dataModel.Session.Present(ctx, appmodel.RoleUser, "hi"))
	require.NoError(t, a.dataModel.Session.Present(ctx, appmodel.RoleAssistant, "hello"))

	a, cmd := submit(t, a, "/clear")
	assert.False(t, a.dataModel.Busy)
	cleared := runFor[historyClearedMsg](t, cmd)
	require.NoError(t, cleared.Err)

	a, _ = update(a, cleared)
	assert.Empty(t, a.dataModel.Session.History())
	assert.Len(t, a.dataModel.Session.Transcript(), 1)
	assert.Equal(t, "History cleared", a.status)
}

func TestFindJumpsToEntry(t *testing.T) {
	a := newTestView(t, testutil.NewMockProvider("m1"))
	ctx := context.Background()
	session := a.dataModel.Session
	require.NoError(t, session.Present(ctx, appmodel.RoleUser, "What's the capital of France?"))
	require.NoError(t, session.Present(ctx, appmodel.RoleAssistant, "Paris."))
	session.Note(appmodel.NoteTrace, "🔧 Tool calls (round 1/5)\n  wikipedia_search {\"query\":\"France\"}")
	a, _ = update(a, transcriptChangedMsg{})

	a, _ = submit(t, a, "/find france")
	require.True(t, a.showSearch)
	require.Len(t, a.searchResults, 1)
	assert.Equal(t, 1, a.searchResults[0].EntryIdx)
	assert.Contains(t, a.View(), "Search History")

	a, _ = update(a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, a.showSearch)
	assert.Equal(t, 1, a.highlightedEntryIdx)
	assert.Equal(t, 1, a.highlightFlashCount)

	a, _ = update(a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, a.showSearch)
}

func TestSearchTranscriptSkipsNotes(t *testing.T) {
	entries := []appmodel.Entry{
		{Role: appmodel.RoleSystem, Content: appmodel.Greeting, Note: appmodel.NoteInfo},
		{Role: appmodel.RoleSystem, Content: "apple trace", Note: appmodel.NoteTrace},
		{Role: appmodel.RoleUser, Content: "Research apple"},
		{Role: appmodel.RoleAssistant, Content: "Apple Inc. makes phones."},
	}

	hits := searchTranscript(entries, "apple")
	require.Len(t, hits, 2)
	var idx []int
	for _, h := range hits {
		idx = append(idx, h.EntryIdx)
	}
	assert.ElementsMatch(t, []int{2, 3}, idx)

	assert.Empty(t, searchTranscript(entries, ""))
}

func TestKeyActions(t *testing.T) {
	a := newTestView(t, testutil.NewMockProvider("m1"))

	a, _ = update(a, tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, "m2", a.dataModel.Provider.GetModel())
	assert.Equal(t, "Model: m2", a.status)

	a.textarea.SetValue("draft")
	a, _ = update(a, tea.KeyMsg{Type: tea.KeyCtrlU})
	assert.Empty(t, a.textarea.Value())

	a, _ = update(a, tea.KeyMsg{Type: tea.KeyCtrlH})
	assert.True(t, a.showHelp)
	assert.Contains(t, a.View(), "Keyboard Shortcuts")
	a, _ = update(a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, a.showHelp)

	a, cmd := update(a, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, a.dataModel.Quitting)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestMarkdownCacheInvalidatedByContent(t *testing.T) {
	a := newTestView(t, testutil.NewMockProvider("m1"))
	require.NoError(t, a.dataModel.Session.Present(context.Background(), appmodel.RoleAssistant, "**fresh**"))

	a, _ = update(a, transcriptChangedMsg{})
	assert.True(t, a.pending[1])

	// A result for older content is stored but not shown
	a, _ = update(a, markdownRenderedMsg{EntryIndex: 1, Source: "stale", Width: a.width, Rendered: "STALE"})
	assert.NotContains(t, a.View(), "STALE")

	a, _ = update(a, markdownRenderedMsg{EntryIndex: 1, Source: "**fresh**", Width: a.width, Rendered: "RENDERED"})
	assert.Contains(t, a.View(), "RENDERED")
}

func TestRenderMarkdown(t *testing.T) {
	out := renderMarkdown("Some **bold** text, see [docs](https://example.com/docs).", 80)
	assert.Contains(t, out, "bold")
	assert.NotContains(t, out, "**")
	assert.Contains(t, out, "https://example.com/docs")
	assert.NotContains(t, out, "[docs]")
}

func TestFrameCodeBlocks(t *testing.T) {
	in := strings.Join([]string{"before", "┃ x := 1", "┃ y := 2", "after"}, "\n")
	out := frameCodeBlocks(in, 40)

	assert.Contains(t, out, "[code]")
	assert.Contains(t, out, "\nx := 1\ny := 2\n")
	assert.NotContains(t, out, "┃")
	assert.True(t, strings.HasPrefix(out, "before\n"))
	assert.True(t, strings.HasSuffix(out, "after"))
}
