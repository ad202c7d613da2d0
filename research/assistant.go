package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"rtui/config"
	"rtui/model"
)

// traceArgsWidth bounds the argument text shown per traced call.
const traceArgsWidth = 80

// Assistant routes each turn to the plain chat path or the research loop and
// reports the outcome through the session.
type Assistant struct {
	provider    model.Provider
	invoker     Invoker
	toolTimeout time.Duration
}

func NewAssistant(provider model.Provider, invoker Invoker, toolTimeout time.Duration) *Assistant {
	return &Assistant{provider: provider, invoker: invoker, toolTimeout: toolTimeout}
}

// HandleTurn presents input, answers it and presents the answer. On failure
// an error note is shown and no assistant message is recorded.
func (a *Assistant) HandleTurn(ctx context.Context, session *model.Session, input string) (*model.TurnOutcome, error) {
	history := session.History()
	if err := session.Present(ctx, model.RoleUser, input); err != nil {
		return nil, err
	}

	mode := model.Classify(input)
	outcome := &model.TurnOutcome{Mode: mode}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Research] Turn mode=%s model=%s", mode, a.provider.GetModel())
	}

	var err error
	switch mode {
	case model.TurnResearch:
		var result *Result
		loop := NewLoop(a.provider, a.invoker,
			WithToolTimeout(a.toolTimeout),
			WithRoundObserver(func(tr RoundTrace) {
				session.Note(model.NoteTrace, FormatTrace(tr))
			}),
		)
		result, err = loop.Run(ctx, input)
		if err == nil {
			outcome.Text = result.Text
			outcome.Rounds = result.Rounds
			outcome.Forced = result.Forced
		}
	default:
		outcome.Text, err = CompletePlain(ctx, a.provider, history, input)
	}

	if err != nil {
		session.Note(model.NoteError, "Error: "+err.Error())
		return nil, err
	}

	if strings.TrimSpace(outcome.Text) == "" {
		session.Note(model.NoteInfo, "The model returned an empty answer.")
		return outcome, nil
	}
	if err := session.Present(ctx, model.RoleAssistant, outcome.Text); err != nil {
		session.Note(model.NoteError, "Error: "+err.Error())
		return nil, err
	}
	outcome.Report = model.OfferReport(mode, outcome.Text)
	return outcome, nil
}

// FormatTrace renders one round for display, one line per requested call.
func FormatTrace(tr RoundTrace) string {
	s := fmt.Sprintf("🔧 Tool calls (round %d/%d)", tr.Round, MaxRounds)
	for _, call := range tr.Admitted {
		s += fmt.Sprintf("\n  %s %s", call.Name, runewidth.Truncate(call.Arguments, traceArgsWidth, "…"))
	}
	for _, call := range tr.Dropped {
		s += fmt.Sprintf("\n  %s %s (dropped: one scrape per round)", call.Name, runewidth.Truncate(call.Arguments, traceArgsWidth, "…"))
	}
	return s
}
