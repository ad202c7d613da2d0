package tools

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ScrapeLimit is the maximum number of characters returned for a page.
const ScrapeLimit = 5000

// Scraper fetches a page and extracts its visible text.
type Scraper struct {
	fetcher
}

func NewScraper(client *http.Client, userAgent string) *Scraper {
	return &Scraper{fetcher: newFetcher(client, userAgent)}
}

// Scrape returns at most the first 5000 characters of the page's visible text.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("%w: url", ErrMissingArgument)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid url %q: scheme must be http or https", rawURL)
	}

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	body, err := s.do(ctx, req)
	if err != nil {
		return "", err
	}

	text, err := VisibleText(body)
	if err != nil {
		return "", err
	}
	return truncateRunes(text, ScrapeLimit), nil
}

// hidden elements never contribute text.
var hidden = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Head:     true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Iframe:   true,
}

// VisibleText parses an HTML document and returns its rendered text, one
// line per non-empty text run.
func VisibleText(body []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hidden[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			if line := collapseSpace(n.Data); line != "" {
				lines = append(lines, line)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(lines, "\n"), nil
}
