package provider

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"rtui/model"
)

// ErrUnknownHandle is returned when a request continues from a handle the
// provider did not issue, or one that has been evicted.
var ErrUnknownHandle = errors.New("unknown continuation handle")

// maxTranscripts bounds the number of locally held transcripts.
const maxTranscripts = 64

// transcripts keeps conversation state for services without server-side
// continuation. Each saved value gets a fresh handle; the oldest values are
// evicted first.
type transcripts[T any] struct {
	mu      sync.Mutex
	byToken map[string]T
	order   []string
}

func newTranscripts[T any]() *transcripts[T] {
	return &transcripts[T]{byToken: make(map[string]T)}
}

// resume returns the value saved under h. The zero handle yields the zero
// value.
func (t *transcripts[T]) resume(h model.Handle) (T, error) {
	var zero T
	if h.IsZero() {
		return zero, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.byToken[h.Token()]
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrUnknownHandle, h.Token())
	}
	return v, nil
}

// save stores v under a fresh handle.
func (t *transcripts[T]) save(v T) model.Handle {
	token := uuid.NewString()
	t.put(token, v)
	return model.NewHandle(token)
}

func (t *transcripts[T]) put(token string, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.byToken[token]; !ok {
		t.order = append(t.order, token)
	}
	t.byToken[token] = v
	for len(t.order) > maxTranscripts {
		delete(t.byToken, t.order[0])
		t.order = t.order[1:]
	}
}

func (t *transcripts[T]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byToken)
}

// DroppedCallOutput answers calls the caller chose not to execute. OpenAI and
// Anthropic reject a continuation that leaves a call unanswered; Ollama pairs
// results by position, so a gap would shift later results.
const DroppedCallOutput = "error: not executed, only one scrape_website call is allowed per round"

// padUnanswered appends a DroppedCallOutput result for every issued call id
// that input does not answer.
func padUnanswered(issued []string, input []model.InputItem) []model.InputItem {
	if len(issued) == 0 {
		return input
	}
	answered := make(map[string]bool, len(input))
	for _, in := range input {
		if in.Result != nil {
			answered[in.Result.CallID] = true
		}
	}
	out := append([]model.InputItem(nil), input...)
	for _, id := range issued {
		if !answered[id] {
			out = append(out, model.ResultInput(model.ToolCallResult{CallID: id, Output: DroppedCallOutput}))
		}
	}
	return out
}

func callIDs(resp *model.Response) []string {
	var ids []string
	for _, call := range resp.ToolCalls() {
		ids = append(ids, call.CallID)
	}
	return ids
}
