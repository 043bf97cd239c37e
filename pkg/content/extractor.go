package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"
)

// maxPageSize caps how much of an article page is read
const maxPageSize = 5 << 20

// ErrNoContent is returned when the page has no recognizable article text
var ErrNoContent = errors.New("no article text")

// HTTPExtractor fetches an article page and pulls its main text with trafilatura.
// The pipeline calls it only when the feed entry is too short to summarize.
type HTTPExtractor struct {
	client    *http.Client
	userAgent string
}

// NewHTTPExtractor creates a new article extractor
func NewHTTPExtractor(timeout time.Duration, userAgent string) *HTTPExtractor {
	return &HTTPExtractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Extract downloads the article at link and returns its text, without comments or tables
func (e *HTTPExtractor) Extract(ctx context.Context, link string) (string, error) {
	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if !pageURL.IsAbs() || pageURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", link)
	}

	page, err := e.open(ctx, pageURL)
	if err != nil {
		return "", err
	}
	defer page.Close()

	doc, err := trafilatura.Extract(io.LimitReader(page, maxPageSize), trafilatura.Options{
		OriginalURL:     pageURL,
		EnableFallback:  true,
		Deduplicate:     true,
		ExcludeComments: true,
		ExcludeTables:   true,
	})
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", link, err)
	}

	var text string
	if doc != nil {
		text = strings.TrimSpace(doc.ContentText)
	}
	if text == "" {
		return "", fmt.Errorf("%w in %s", ErrNoContent, link)
	}
	return text, nil
}

// open requests the page and returns its body for a 200 response
func (e *HTTPExtractor) open(ctx context.Context, pageURL *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	addBrowserHeaders(req)
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL %s: %w", pageURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, pageURL)
	}
	return resp.Body, nil
}
