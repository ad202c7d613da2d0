// Package research drives the tool-augmented research loop and the plain
// chat path, and ties both to the session sink.
package research

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"rtui/config"
	"rtui/model"
	"rtui/tools"
)

// MaxRounds bounds the number of tool rounds executed per research turn.
const MaxRounds = 5

// SystemInstruction is sent with the first request of every research turn.
const SystemInstruction = `You are a research assistant.

Rules:
1. Use tools to gather information. Do NOT rely on prior knowledge.
2. Use wikipedia_search first in Wikipedia.
3. Use duckduckgo_search in DuckDuckGo.
4. If duckduckgo_search found a url, Scrape at most ONE website.
5. Do NOT repeat the same search query.
6. After completing research, respond with the final report directly.
7. Do NOT call any tool after the report.`

// IncompleteText is returned when the round budget runs out before the model
// produced any text.
var IncompleteText = fmt.Sprintf("Research incomplete: the tool round limit (%d) was reached before a final answer was produced.", MaxRounds)

// Invoker executes decoded tool calls. *tools.Registry implements it.
type Invoker interface {
	Invoke(ctx context.Context, call tools.Call) (string, error)
}

// BudgetExceededError records a forced termination. It is reported through
// Result.Err and is never returned from Run.
type BudgetExceededError struct {
	Rounds  int
	Pending int
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("round budget exceeded after %d rounds with %d tool calls pending", e.Rounds, e.Pending)
}

// RoundTrace describes one executed round.
type RoundTrace struct {
	Round    int
	Admitted []model.ToolCallRequest
	Dropped  []model.ToolCallRequest
	Results  []model.ToolCallResult
}

// Result is the outcome of a research turn.
type Result struct {
	Text string
	// Rounds is the number of tool rounds executed.
	Rounds int
	// Requests is the number of model requests issued.
	Requests int
	Forced   bool
	Pending  int
}

// Err returns a *BudgetExceededError for forced results and nil otherwise.
func (r *Result) Err() error {
	if r == nil || !r.Forced {
		return nil
	}
	return &BudgetExceededError{Rounds: r.Rounds, Pending: r.Pending}
}

// Loop is the research state machine. A Loop is stateless between runs and
// may be shared.
type Loop struct {
	provider    model.Provider
	invoker     Invoker
	toolTimeout time.Duration
	onRound     func(RoundTrace)
}

type Option func(*Loop)

// WithToolTimeout bounds every tool call. A timed out call is answered with
// an error payload instead of failing the round. Zero disables the bound.
func WithToolTimeout(d time.Duration) Option {
	return func(l *Loop) { l.toolTimeout = d }
}

// WithRoundObserver is called after each round's results are assembled.
func WithRoundObserver(fn func(RoundTrace)) Option {
	return func(l *Loop) { l.onRound = fn }
}

func NewLoop(provider model.Provider, invoker Invoker, opts ...Option) *Loop {
	l := &Loop{provider: provider, invoker: invoker}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run executes one research turn for query. The request carries no prior
// conversation history.
func (l *Loop) Run(ctx context.Context, query string) (*Result, error) {
	schemas := tools.Schemas()

	resp, err := l.provider.Complete(ctx, model.Request{
		Instructions: SystemInstruction,
		Input:        []model.InputItem{model.MessageInput(model.RoleUser, query)},
		Tools:        schemas,
	})
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}
	result := &Result{Requests: 1}

	for {
		calls := resp.ToolCalls()
		if len(calls) == 0 {
			result.Text = resp.Text()
			return result, nil
		}

		if result.Rounds == MaxRounds {
			result.Forced = true
			result.Pending = len(calls)
			result.Text = resp.Text()
			if result.Text == "" {
				result.Text = IncompleteText
			}
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Research] %v", result.Err())
			}
			return result, nil
		}
		result.Rounds++

		admitted, dropped := Admit(calls)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Research] Round %d: %d calls requested, %d admitted, %d dropped",
				result.Rounds, len(calls), len(admitted), len(dropped))
		}

		results, err := l.execute(ctx, admitted)
		if err != nil {
			return nil, err
		}

		if l.onRound != nil {
			l.onRound(RoundTrace{Round: result.Rounds, Admitted: admitted, Dropped: dropped, Results: results})
		}

		input := make([]model.InputItem, len(results))
		for i, r := range results {
			input[i] = model.ResultInput(r)
		}

		resp, err = l.provider.Complete(ctx, model.Request{
			Input:        input,
			Tools:        schemas,
			Continuation: resp.Handle,
		})
		if err != nil {
			return nil, fmt.Errorf("model request failed: %w", err)
		}
		result.Requests++
	}
}

// Admit applies the per-round scrape cap: calls are taken in issue order,
// every non-scrape call is admitted and only the first scrape_website call
// is. The rest are dropped and never executed; the loop sends no result for
// them, and providers that need every call answered fill the gap with
// provider.DroppedCallOutput.
func Admit(calls []model.ToolCallRequest) (admitted, dropped []model.ToolCallRequest) {
	scrapes := 0
	for _, call := range calls {
		if call.Name == tools.NameScrape {
			if scrapes >= 1 {
				dropped = append(dropped, call)
				continue
			}
			scrapes++
		}
		admitted = append(admitted, call)
	}
	return admitted, dropped
}

// execute runs the admitted calls and returns one result per call, in
// admission order. Searches run concurrently; the scrape runs inline. The
// first tool failure cancels the round and is returned once every started
// call has finished.
func (l *Loop) execute(ctx context.Context, calls []model.ToolCallRequest) ([]model.ToolCallResult, error) {
	results := make([]model.ToolCallResult, len(calls))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var inline []tools.Call
	var inlineIdx []int
	for i, req := range calls {
		results[i].CallID = req.CallID

		call, err := tools.ParseCall(req.Name, req.Arguments)
		if err != nil {
			// Unknown or malformed calls are answered so the model can react.
			results[i].Output = "error: " + err.Error()
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Research] Rejected call %s (%s): %v", req.CallID, req.Name, err)
			}
			continue
		}

		if !call.Kind().Concurrent() {
			inline = append(inline, call)
			inlineIdx = append(inlineIdx, i)
			continue
		}

		g.Go(func() error {
			out, err := l.invoke(gctx, call)
			if err != nil {
				return err
			}
			results[i].Output = out
			return nil
		})
	}

	var inlineErr error
	groupFailed := false
	for j, call := range inline {
		out, err := l.invoke(gctx, call)
		if err != nil {
			// A failure caused by a search already failing is not the root cause.
			groupFailed = gctx.Err() != nil
			inlineErr = err
			cancel()
			break
		}
		results[inlineIdx[j]].Output = out
	}

	waitErr := g.Wait()
	switch {
	case inlineErr != nil && !groupFailed:
		return nil, inlineErr
	case waitErr != nil:
		return nil, waitErr
	case inlineErr != nil:
		return nil, inlineErr
	}
	return results, nil
}

// invoke runs one call under the per-call timeout.
func (l *Loop) invoke(ctx context.Context, call tools.Call) (string, error) {
	if l.toolTimeout <= 0 {
		return l.invoker.Invoke(ctx, call)
	}

	callCtx, cancel := context.WithTimeout(ctx, l.toolTimeout)
	defer cancel()

	out, err := l.invoker.Invoke(callCtx, call)
	if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Research] %s(%s) timed out after %s", call.Kind(), call.Args(), l.toolTimeout)
		}
		return fmt.Sprintf("error: %s timed out after %s", call.Kind(), l.toolTimeout), nil
	}
	return out, err
}
