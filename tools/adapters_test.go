package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWikipediaSearch(t *testing.T) {
	var gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("gsrsearch")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"query":{"pages":[
			{"title":"Apple Store","extract":"A chain of retail stores.","index":2},
			{"title":"Apple Inc.","extract":"An American technology company.","index":1},
			{"title":"Steve Jobs","extract":"Co-founder of Apple.","index":3}
		]}}`)
	}))
	defer srv.Close()

	wiki := NewWikipedia(srv.Client(), "", "en", srv.URL)
	out, err := wiki.Search(context.Background(), "Apple Company")
	require.NoError(t, err)

	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "Apple Company", gotQuery)
	assert.Equal(t, "Page: Apple Inc.\nSummary: An American technology company.\n\n"+
		"Page: Apple Store\nSummary: A chain of retail stores.\n\n"+
		"Page: Steve Jobs\nSummary: Co-founder of Apple.", out)
}

func TestWikipediaSearchNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"batchcomplete":true}`)
	}))
	defer srv.Close()

	out, err := NewWikipedia(srv.Client(), "", "", srv.URL).Search(context.Background(), "zzzxqj")
	require.NoError(t, err)
	assert.Equal(t, "No good Wikipedia Search Result was found", out)
}

func TestWikipediaSearchCapsLength(t *testing.T) {
	long := strings.Repeat("é", 6000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"query":{"pages":[{"title":"Long","extract":"%s","index":1}]}}`, long)
	}))
	defer srv.Close()

	out, err := NewWikipedia(srv.Client(), "", "", srv.URL).Search(context.Background(), "long")
	require.NoError(t, err)
	assert.Equal(t, 4000, utf8.RuneCountInString(out))
	assert.True(t, utf8.ValidString(out))
}

func TestWikipediaSearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		query   string
	}{
		{
			name:    "empty query",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			query:   "  ",
		},
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			query: "apple",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html>`)
			},
			query: "apple",
		},
		{
			name: "api error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"error":{"code":"maxlag","info":"Waiting"}}`)
			},
			query: "apple",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewWikipedia(srv.Client(), "", "", srv.URL).Search(context.Background(), tt.query)
			assert.Error(t, err)
		})
	}
}

const liteFixture = `<html><body><table>
<tr><td>1.</td><td><a rel="nofollow" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.apple.com%2F&amp;rut=abc" class='result-link'>Apple</a></td></tr>
<tr><td></td><td class='result-snippet'>Discover the innovative world of <b>Apple</b>.</td></tr>
<tr><td>2.</td><td><a rel="nofollow" href="https://en.wikipedia.org/wiki/Apple_Inc." class='result-link'>Apple Inc. - Wikipedia</a></td></tr>
<tr><td></td><td class='result-snippet'>Apple Inc. is an American multinational   technology company.</td></tr>
<tr><td>3.</td><td><a href="https://three.example" class="result-link">Three</a></td></tr>
<tr><td></td><td class="result-snippet">third</td></tr>
<tr><td>4.</td><td><a href="https://four.example" class="result-link">Four</a></td></tr>
<tr><td></td><td class="result-snippet">fourth</td></tr>
<tr><td>5.</td><td><a href="https://five.example" class="result-link">Five</a></td></tr>
<tr><td></td><td class="result-snippet">fifth</td></tr>
</table></body></html>`

func TestDuckDuckGoSearch(t *testing.T) {
	var gotMethod, gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotUA = r.Header.Get("User-Agent")
		require.NoError(t, r.ParseForm())
		gotQuery = r.PostForm.Get("q")
		fmt.Fprint(w, liteFixture)
	}))
	defer srv.Close()

	ddg := NewDuckDuckGo(srv.Client(), "Tester/2.0", srv.URL)
	out, err := ddg.Search(context.Background(), "Apple Company")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Apple Company", gotQuery)
	assert.Equal(t, "Tester/2.0", gotUA)

	assert.True(t, strings.HasPrefix(out, "[snippet: Discover the innovative world of Apple., title: Apple, link: https://www.apple.com/]"))
	assert.Contains(t, out, "[snippet: Apple Inc. is an American multinational technology company., title: Apple Inc. - Wikipedia, link: https://en.wikipedia.org/wiki/Apple_Inc.]")
	assert.Contains(t, out, "link: https://four.example]")
	assert.NotContains(t, out, "five.example")
}

func TestDuckDuckGoNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>No results.</body></html>`)
	}))
	defer srv.Close()

	out, err := NewDuckDuckGo(srv.Client(), "", srv.URL).Search(context.Background(), "zzzxqj")
	require.NoError(t, err)
	assert.Equal(t, "No good DuckDuckGo Search Result was found", out)
}

func TestDuckDuckGoEmptyQuery(t *testing.T) {
	_, err := NewDuckDuckGo(nil, "", "http://127.0.0.1:0").Search(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingArgument)
}

func TestScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!doctype html><html><head><title>T</title><style>body{}</style></head>
<body><script>var x = 1;</script><h1>Apple   Inc.</h1><p>Makes <b>phones</b>.</p><noscript>enable js</noscript></body></html>`)
	}))
	defer srv.Close()

	out, err := NewScraper(srv.Client(), "").Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.\nMakes\nphones\n.", out)
}

func TestScrapeTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<p>%s</p>", strings.Repeat("ü", ScrapeLimit*2))
	}))
	defer srv.Close()

	out, err := NewScraper(srv.Client(), "").Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, ScrapeLimit, utf8.RuneCountInString(out))
}

func TestScrapeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	scraper := NewScraper(srv.Client(), "")
	ctx := context.Background()

	_, err := scraper.Scrape(ctx, "")
	assert.ErrorIs(t, err, ErrMissingArgument)

	_, err = scraper.Scrape(ctx, "file:///etc/passwd")
	assert.Error(t, err)

	_, err = scraper.Scrape(ctx, srv.URL+"/missing")
	assert.Error(t, err)
}

func TestScrapeHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewScraper(srv.Client(), "").Scrape(ctx, srv.URL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
