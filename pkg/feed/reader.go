package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/finews/newsbrief/pkg/domain"
)

// DefaultUserAgent identifies as a desktop browser, some publishers block anything else
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

var (
	// ErrEmptyFeed is returned when a feed parses but has no entries
	ErrEmptyFeed = errors.New("feed has no entries")
	// ErrBadStatus is returned when the feed endpoint responds with a non-200 status
	ErrBadStatus = errors.New("unexpected status code")
)

// Reader fetches feeds and returns their first entry
type Reader struct {
	client    *http.Client
	userAgent string
}

// NewReader creates a feed reader with the given per-request timeout
func NewReader(timeout time.Duration, userAgent string) *Reader {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Reader{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// ReadFirst fetches the feed at url and returns its first entry only.
// At most one article per feed is processed per cycle, the rest of the feed is ignored.
func (r *Reader) ReadFirst(ctx context.Context, url string) (*domain.RawEntry, error) {
	body, err := r.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	parsed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	if len(parsed.Items) == 0 || parsed.Items[0] == nil {
		return nil, ErrEmptyFeed
	}

	return entryFromItem(parsed.Items[0]), nil
}

// entryFromItem picks title, link and body, preferring the summary over the content
func entryFromItem(item *gofeed.Item) *domain.RawEntry {
	entry := &domain.RawEntry{
		Title: item.Title,
		Link:  item.Link,
		Body:  item.Description,
	}
	if entry.Body == "" {
		entry.Body = item.Content
	}
	if entry.Link == "" && len(item.Links) > 0 {
		entry.Link = item.Links[0]
	}
	return entry
}

// fetch retrieves content from a URL
func (r *Reader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", r.userAgent)
	addBrowserHeaders(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	return resp.Body, nil
}
