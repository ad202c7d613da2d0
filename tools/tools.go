// Package tools implements the three research tools the model may call:
// an encyclopedia lookup, a web search and a single-page scrape.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind enumerates the callable tools. The set is closed.
type Kind int

const (
	KindWikipedia Kind = iota
	KindDuckDuckGo
	KindScrape
)

const (
	NameWikipedia  = "wikipedia_search"
	NameDuckDuckGo = "duckduckgo_search"
	NameScrape     = "scrape_website"
)

// Kinds lists every tool in declaration order.
var Kinds = []Kind{KindWikipedia, KindDuckDuckGo, KindScrape}

func (k Kind) String() string {
	switch k {
	case KindWikipedia:
		return NameWikipedia
	case KindDuckDuckGo:
		return NameDuckDuckGo
	case KindScrape:
		return NameScrape
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Concurrent reports whether calls of this kind may run in parallel with
// other calls in the same round.
func (k Kind) Concurrent() bool {
	return k == KindWikipedia || k == KindDuckDuckGo
}

var (
	// ErrUnknownTool is returned by Resolve and ParseCall for names outside
	// the closed tool set.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrMalformedArguments is returned by ParseCall when the argument
	// payload is not a JSON object of the expected shape.
	ErrMalformedArguments = errors.New("malformed tool arguments")
	// ErrMissingArgument is wrapped in an ExecutionError when a required
	// argument is empty.
	ErrMissingArgument = errors.New("missing required argument")
)

// ExecutionError reports a failed tool invocation.
type ExecutionError struct {
	Tool Kind
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Resolve maps a tool name to its Kind.
func Resolve(name string) (Kind, error) {
	switch name {
	case NameWikipedia:
		return KindWikipedia, nil
	case NameDuckDuckGo:
		return KindDuckDuckGo, nil
	case NameScrape:
		return KindScrape, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
}

// Call is a decoded tool request. It is one of WikipediaCall,
// DuckDuckGoCall or ScrapeCall.
type Call interface {
	Kind() Kind
	// Args returns the arguments in a compact form for traces.
	Args() string
	isCall()
}

type WikipediaCall struct {
	Query string `json:"query"`
}

type DuckDuckGoCall struct {
	Query string `json:"query"`
}

type ScrapeCall struct {
	URL string `json:"url"`
}

func (WikipediaCall) Kind() Kind  { return KindWikipedia }
func (DuckDuckGoCall) Kind() Kind { return KindDuckDuckGo }
func (ScrapeCall) Kind() Kind     { return KindScrape }

func (c WikipediaCall) Args() string  { return fmt.Sprintf("query=%q", c.Query) }
func (c DuckDuckGoCall) Args() string { return fmt.Sprintf("query=%q", c.Query) }
func (c ScrapeCall) Args() string     { return fmt.Sprintf("url=%q", c.URL) }

func (WikipediaCall) isCall()  {}
func (DuckDuckGoCall) isCall() {}
func (ScrapeCall) isCall()     {}

// ParseCall decodes a model tool request into a typed Call. An empty
// argument payload decodes to a call with empty fields; the adapter then
// rejects it with ErrMissingArgument.
func ParseCall(name, arguments string) (Call, error) {
	kind, err := Resolve(name)
	if err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(arguments)
	if raw == "" {
		raw = "{}"
	}

	var call Call
	switch kind {
	case KindWikipedia:
		var c WikipediaCall
		err = json.Unmarshal([]byte(raw), &c)
		call = c
	case KindDuckDuckGo:
		var c DuckDuckGoCall
		err = json.Unmarshal([]byte(raw), &c)
		call = c
	case KindScrape:
		var c ScrapeCall
		err = json.Unmarshal([]byte(raw), &c)
		call = c
	}
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrMalformedArguments, kind, err)
	}
	return call, nil
}
