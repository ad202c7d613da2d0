package tools

import (
	"context"
	"fmt"
	"net/http"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"rtui/config"
)

// Searcher is implemented by the Wikipedia and DuckDuckGo adapters.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// PageScraper is implemented by Scraper.
type PageScraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// Registry binds each Kind to its adapter. It is safe for concurrent use as
// long as the adapters are.
type Registry struct {
	wikipedia  Searcher
	duckduckgo Searcher
	scraper    PageScraper
}

type Options struct {
	HTTPClient        *http.Client
	UserAgent         string
	WikipediaLanguage string

	// Endpoint overrides, used by tests.
	WikipediaEndpoint  string
	DuckDuckGoEndpoint string
}

func NewRegistry(opts Options) *Registry {
	return &Registry{
		wikipedia:  NewWikipedia(opts.HTTPClient, opts.UserAgent, opts.WikipediaLanguage, opts.WikipediaEndpoint),
		duckduckgo: NewDuckDuckGo(opts.HTTPClient, opts.UserAgent, opts.DuckDuckGoEndpoint),
		scraper:    NewScraper(opts.HTTPClient, opts.UserAgent),
	}
}

// NewRegistryFromConfig builds the registry from the [research] settings.
func NewRegistryFromConfig(cfg *config.Config) *Registry {
	return NewRegistry(Options{
		HTTPClient:        HTTPClientFor(cfg.ToolTimeout),
		UserAgent:         cfg.UserAgent,
		WikipediaLanguage: cfg.WikipediaLanguage,
	})
}

// NewRegistryWith builds a registry from caller-supplied adapters.
func NewRegistryWith(wikipedia, duckduckgo Searcher, scraper PageScraper) *Registry {
	return &Registry{wikipedia: wikipedia, duckduckgo: duckduckgo, scraper: scraper}
}

// Schemas returns the declarations of every registered tool.
func (r *Registry) Schemas() []mcptypes.Tool {
	return Schemas()
}

// Invoke runs call on its adapter. Every failure is returned as an
// *ExecutionError.
func (r *Registry) Invoke(ctx context.Context, call Call) (string, error) {
	var (
		out string
		err error
	)

	switch c := call.(type) {
	case WikipediaCall:
		out, err = r.wikipedia.Search(ctx, c.Query)
	case DuckDuckGoCall:
		out, err = r.duckduckgo.Search(ctx, c.Query)
	case ScrapeCall:
		out, err = r.scraper.Scrape(ctx, c.URL)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownTool, call)
	}

	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Tools] %s(%s) failed: %v", call.Kind(), call.Args(), err)
		}
		return "", &ExecutionError{Tool: call.Kind(), Err: err}
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Tools] %s(%s) returned %d bytes", call.Kind(), call.Args(), len(out))
	}
	return out, nil
}
