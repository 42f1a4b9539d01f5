// Copyright 2025 Business Plan Creator
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orchestrator

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/NicoGrassetto/Business-Plan-Creator/shared/logger"
)

const (
	searchEndpoint = "https://html.duckduckgo.com/html/"

	searchMaxRetries     = 5
	searchInitialBackoff = 1 * time.Second
	searchMaxBackoff     = 60 * time.Second
	searchMaxResults     = 5
)

// SearchType selects the flavor of a web search.
type SearchType string

const (
	SearchTypeGeneral SearchType = "general"
	SearchTypeNews    SearchType = "news"
)

// SearchResult is one extracted web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchHTTPClient abstracts the HTTP client for testing.
type SearchHTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SearchClient queries the DuckDuckGo HTML endpoint with progressive backoff
// on rate limiting. No API key is required.
type SearchClient struct {
	httpClient SearchHTTPClient
	sleep      func(time.Duration)
	log        *logger.Logger
}

// NewSearchClient creates a search client with default settings.
func NewSearchClient() *SearchClient {
	return &SearchClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		sleep:      time.Sleep,
		log:        logger.New("search"),
	}
}

// SetHTTPClient replaces the HTTP client, for testing.
func (c *SearchClient) SetHTTPClient(client SearchHTTPClient) {
	c.httpClient = client
}

// SetSleep replaces the backoff sleep function, for testing.
func (c *SearchClient) SetSleep(sleep func(time.Duration)) {
	c.sleep = sleep
}

// resultLinkPattern and resultSnippetPattern extract hits from the DuckDuckGo
// HTML results page. The markup is stable enough that targeted expressions
// beat pulling in a full HTML parser for two anchors per result.
var (
	resultLinkPattern    = regexp.MustCompile(`<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	resultSnippetPattern = regexp.MustCompile(`<a[^>]+class="result__snippet"[^>]*>(.*?)</a>`)
	tagPattern           = regexp.MustCompile(`<[^>]+>`)
)

// Search runs a query and returns the formatted results as a single text
// block suitable for feeding back to the model as a tool result.
//
// Rate-limit responses are retried up to searchMaxRetries times with a
// doubling delay starting at searchInitialBackoff and capped at
// searchMaxBackoff. When the budget is exhausted the last error is returned.
func (c *SearchClient) Search(ctx context.Context, query string, searchType SearchType) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("search query cannot be empty")
	}
	if searchType == SearchTypeNews {
		query = query + " news"
	}

	backoff := searchInitialBackoff
	var lastErr error
	for attempt := 1; attempt <= searchMaxRetries; attempt++ {
		results, retryable, err := c.fetch(ctx, query)
		if err == nil {
			promSearchRequestsTotal.WithLabelValues("success").Inc()
			return formatSearchResults(query, results), nil
		}
		lastErr = err
		if !retryable {
			promSearchRequestsTotal.WithLabelValues("error").Inc()
			return "", err
		}

		if attempt < searchMaxRetries {
			c.log.Warn("", "Search rate limited, backing off", map[string]interface{}{
				"attempt": attempt, "backoff": backoff.String(),
			})
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			default:
			}
			c.sleep(backoff)
			backoff *= 2
			if backoff > searchMaxBackoff {
				backoff = searchMaxBackoff
			}
		}
	}
	promSearchRequestsTotal.WithLabelValues("rate_limited").Inc()
	return "", fmt.Errorf("search failed after %d attempts: %w", searchMaxRetries, lastErr)
}

// fetch performs one request. The second return value reports whether the
// failure is worth retrying.
func (c *SearchClient) fetch(ctx context.Context, query string) ([]SearchResult, bool, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, searchEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; BusinessPlanCreator/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read search response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		return nil, true, fmt.Errorf("search rate limited (status %d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	return extractSearchResults(string(body)), false, nil
}

// extractSearchResults pulls up to searchMaxResults hits out of the results
// page markup.
func extractSearchResults(page string) []SearchResult {
	links := resultLinkPattern.FindAllStringSubmatch(page, searchMaxResults)
	snippets := resultSnippetPattern.FindAllStringSubmatch(page, searchMaxResults)

	results := make([]SearchResult, 0, len(links))
	for i, link := range links {
		result := SearchResult{
			URL:   html.UnescapeString(link[1]),
			Title: cleanHTMLText(link[2]),
		}
		if i < len(snippets) {
			result.Snippet = cleanHTMLText(snippets[i][1])
		}
		results = append(results, result)
	}
	return results
}

// cleanHTMLText strips tags and decodes entities from an extracted fragment.
func cleanHTMLText(fragment string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(fragment, "")))
}

// formatSearchResults renders hits as a numbered text block.
func formatSearchResults(query string, results []SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for %q.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for %q:\n\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "%d. **%s**\n   %s\n   %s\n\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return strings.TrimSpace(b.String())
}
