package model

import (
	"context"
	"sync"

	"rtui/config"
)

// ReportWriter saves a report artifact and returns the written path.
type ReportWriter interface {
	SaveReport(dir string, report *Artifact) (string, error)
}

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config    *config.Config
	Provider  Provider
	Session   *Session
	Assistant TurnHandler
	Reports   ReportWriter

	// Runtime state (not UI)
	Busy        bool
	LastOutcome *TurnOutcome
	Quitting    bool

	// Application metadata
	Version string

	mu         sync.Mutex
	cancelTurn context.CancelFunc
}

func NewModel(cfg *config.Config, provider Provider, session *Session, assistant TurnHandler, reports ReportWriter, version string) *Model {
	return &Model{
		Config:    cfg,
		Provider:  provider,
		Session:   session,
		Assistant: assistant,
		Reports:   reports,
		Version:   version,
	}
}

// Report returns the artifact offered by the last completed turn, if any.
func (m *Model) Report() *Artifact {
	if m.LastOutcome == nil {
		return nil
	}
	return m.LastOutcome.Report
}

// LastAnswer returns the most recent assistant message.
func (m *Model) LastAnswer() string {
	history := m.Session.History()
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleAssistant {
			return history[i].Content
		}
	}
	return ""
}

// CycleModel switches the provider to the next configured model choice and
// returns it.
func (m *Model) CycleModel() string {
	choices := m.Config.ModelChoices
	current := m.Provider.GetModel()
	if len(choices) == 0 {
		return current
	}

	next := choices[0]
	for i, c := range choices {
		if c == current {
			next = choices[(i+1)%len(choices)]
			break
		}
	}
	m.Provider.SetModel(next)

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Model] Switched model %s -> %s", current, next)
	}
	return next
}

// CancelTurn aborts the in-flight turn, if any.
func (m *Model) CancelTurn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelTurn == nil {
		return false
	}
	m.cancelTurn()
	m.cancelTurn = nil
	return true
}

func (m *Model) beginTurn() context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelTurn = cancel
	return ctx
}

func (m *Model) endTurn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelTurn != nil {
		m.cancelTurn()
		m.cancelTurn = nil
	}
}
