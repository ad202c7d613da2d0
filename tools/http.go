package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"rtui/config"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "MyAgent/0.1"

// maxBodyBytes bounds every response body read by the adapters.
const maxBodyBytes = 4 << 20

// fallbackHTTPTimeout bounds requests only when no per-call tool timeout is
// configured.
const fallbackHTTPTimeout = 2 * time.Minute

// HTTPClientFor returns the client shared by the adapters. With a per-call
// tool timeout the caller's context is the only deadline, so a slow upstream
// surfaces as a timed out call rather than a transport error.
func HTTPClientFor(toolTimeout time.Duration) *http.Client {
	if toolTimeout > 0 {
		return &http.Client{}
	}
	return &http.Client{Timeout: fallbackHTTPTimeout}
}

type fetcher struct {
	client    *http.Client
	userAgent string
}

func newFetcher(client *http.Client, userAgent string) fetcher {
	if client == nil {
		client = &http.Client{Timeout: fallbackHTTPTimeout}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return fetcher{client: client, userAgent: userAgent}
}

// do sends req with the configured user agent and returns the body of a 2xx
// response.
func (f fetcher) do(ctx context.Context, req *http.Request) ([]byte, error) {
	req = req.WithContext(ctx)
	req.Header.Set("User-Agent", f.userAgent)

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Tools] %s %s", req.Method, req.URL.Redacted())
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected HTTP status %d from %s", resp.StatusCode, req.URL.Host)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
