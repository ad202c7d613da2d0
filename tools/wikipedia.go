package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

const (
	wikipediaTopK      = 3
	wikipediaMaxChars  = 4000
	wikipediaNoResults = "No good Wikipedia Search Result was found"
)

// Wikipedia searches the MediaWiki API and summarizes the top pages.
type Wikipedia struct {
	fetcher
	endpoint string
}

// NewWikipedia returns a Wikipedia adapter for the given language edition.
// endpoint overrides the api.php URL when non-empty.
func NewWikipedia(client *http.Client, userAgent, language, endpoint string) *Wikipedia {
	if endpoint == "" {
		if language == "" {
			language = "en"
		}
		endpoint = fmt.Sprintf("https://%s.wikipedia.org/w/api.php", language)
	}
	return &Wikipedia{fetcher: newFetcher(client, userAgent), endpoint: endpoint}
}

type wikipediaResponse struct {
	Query struct {
		Pages []struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
			Index   int    `json:"index"`
			Missing bool   `json:"missing"`
		} `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Search returns "Page: <title>\nSummary: <extract>" blocks for the top
// matching pages, joined by blank lines and capped at 4000 characters.
func (w *Wikipedia) Search(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: query", ErrMissingArgument)
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("generator", "search")
	params.Set("gsrsearch", query)
	params.Set("gsrlimit", fmt.Sprint(wikipediaTopK))
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("exlimit", fmt.Sprint(wikipediaTopK))

	req, err := http.NewRequest(http.MethodGet, w.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	body, err := w.do(ctx, req)
	if err != nil {
		return "", err
	}

	var parsed wikipediaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse Wikipedia response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("wikipedia API error %s: %s", parsed.Error.Code, parsed.Error.Info)
	}

	pages := parsed.Query.Pages
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })

	var blocks []string
	for _, page := range pages {
		if page.Missing || page.Title == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Page: %s\nSummary: %s", page.Title, strings.TrimSpace(page.Extract)))
		if len(blocks) == wikipediaTopK {
			break
		}
	}
	if len(blocks) == 0 {
		return wikipediaNoResults, nil
	}

	return truncateRunes(strings.Join(blocks, "\n\n"), wikipediaMaxChars), nil
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
