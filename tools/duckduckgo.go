package tools

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

const (
	duckDuckGoEndpoint   = "https://lite.duckduckgo.com/lite/"
	duckDuckGoMaxResults = 4
	duckDuckGoNoResults  = "No good DuckDuckGo Search Result was found"
)

// DuckDuckGo searches the DuckDuckGo lite HTML interface.
type DuckDuckGo struct {
	fetcher
	endpoint string
}

// NewDuckDuckGo returns a search adapter. endpoint overrides the lite URL when
// non-empty.
func NewDuckDuckGo(client *http.Client, userAgent, endpoint string) *DuckDuckGo {
	if endpoint == "" {
		endpoint = duckDuckGoEndpoint
	}
	return &DuckDuckGo{fetcher: newFetcher(client, userAgent), endpoint: endpoint}
}

// SearchResult is one organic hit.
type SearchResult struct {
	Title   string
	Link    string
	Snippet string
}

func (r SearchResult) String() string {
	return fmt.Sprintf("[snippet: %s, title: %s, link: %s]", r.Snippet, r.Title, r.Link)
}

// Search returns up to four results serialized as
// "[snippet: ..., title: ..., link: ...]" entries joined by ", ".
func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: query", ErrMissingArgument)
	}

	form := url.Values{}
	form.Set("q", query)
	req, err := http.NewRequest(http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := d.do(ctx, req)
	if err != nil {
		return "", err
	}

	results, err := parseLiteResults(body)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return duckDuckGoNoResults, nil
	}

	entries := make([]string, len(results))
	for i, r := range results {
		entries[i] = r.String()
	}
	return strings.Join(entries, ", "), nil
}

// parseLiteResults pairs each "result-link" anchor with the following
// "result-snippet" cell.
func parseLiteResults(body []byte) ([]SearchResult, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse DuckDuckGo results: %w", err)
	}

	var results []SearchResult
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if len(results) > 3*duckDuckGoMaxResults {
			return
		}
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result-link"):
				results = append(results, SearchResult{
					Title: collapseSpace(nodeText(n)),
					Link:  resolveResultLink(attr(n, "href")),
				})
				return
			case n.Data == "td" && hasClass(n, "result-snippet"):
				if len(results) > 0 && results[len(results)-1].Snippet == "" {
					results[len(results)-1].Snippet = collapseSpace(nodeText(n))
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	kept := results[:0]
	for _, r := range results {
		if r.Link == "" || r.Title == "" {
			continue
		}
		kept = append(kept, r)
		if len(kept) == duckDuckGoMaxResults {
			break
		}
	}
	return kept, nil
}

// resolveResultLink unwraps DuckDuckGo's /l/?uddg= redirect links.
func resolveResultLink(href string) string {
	href = strings.TrimSpace(href)
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
