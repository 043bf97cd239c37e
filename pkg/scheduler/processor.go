package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/finews/newsbrief/pkg/content"
	"github.com/finews/newsbrief/pkg/domain"
	"github.com/finews/newsbrief/pkg/feed"
)

//go:generate moq -out mocks/feed_reader.go -pkg mocks -skip-ensure -fmt goimports . FeedReader
//go:generate moq -out mocks/text_cleaner.go -pkg mocks -skip-ensure -fmt goimports . TextCleaner
//go:generate moq -out mocks/article_extractor.go -pkg mocks -skip-ensure -fmt goimports . ArticleExtractor
//go:generate moq -out mocks/summarizer.go -pkg mocks -skip-ensure -fmt goimports . Summarizer

// FeedReader returns the first entry of a feed
type FeedReader interface {
	ReadFirst(ctx context.Context, url string) (*domain.RawEntry, error)
}

// TextCleaner turns markup into plain text, rejecting texts that are too short
type TextCleaner interface {
	Clean(raw string) (string, error)
}

// ArticleExtractor fetches the text of an article page
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Summarizer produces a structured summary of an article
type Summarizer interface {
	Summarize(ctx context.Context, title, body string) (*domain.Summary, error)
}

// Status is the outcome of processing one feed
type Status string

// feed processing outcomes
const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped" // empty feed, short text or non-200 response
	StatusFailed  Status = "failed"  // transport, parse or llm error
)

// FeedResult is the outcome of processing one feed, Record is set only for StatusOK
type FeedResult struct {
	Feed   domain.FeedSource
	Status Status
	Record *domain.NewsRecord
	Err    error
}

// Processor runs the feed pipeline: read the first entry, clean it, summarize it.
// Feeds are processed one after another and a failing feed never stops the rest.
type Processor struct {
	feeds      []domain.FeedSource
	reader     FeedReader
	cleaner    TextCleaner
	extractor  ArticleExtractor
	summarizer Summarizer
	now        func() time.Time
}

// ProcessorConfig holds dependencies for Processor. Extractor is optional.
type ProcessorConfig struct {
	Feeds      []domain.FeedSource
	Reader     FeedReader
	Cleaner    TextCleaner
	Extractor  ArticleExtractor
	Summarizer Summarizer
}

// NewProcessor creates a new feed processor
func NewProcessor(cfg ProcessorConfig) *Processor {
	return &Processor{
		feeds:      cfg.Feeds,
		reader:     cfg.Reader,
		cleaner:    cfg.Cleaner,
		extractor:  cfg.Extractor,
		summarizer: cfg.Summarizer,
		now:        time.Now,
	}
}

// Run processes every feed and returns one result per feed, in feed order.
// Cancelling ctx stops before the next feed; feeds not reached get no result.
func (p *Processor) Run(ctx context.Context) []FeedResult {
	results := make([]FeedResult, 0, len(p.feeds))
	for _, f := range p.feeds {
		if ctx.Err() != nil {
			lgr.Printf("[WARN] processing interrupted, %d of %d feeds done", len(results), len(p.feeds))
			break
		}
		results = append(results, p.processFeed(ctx, f))
	}
	return results
}

func (p *Processor) processFeed(ctx context.Context, src domain.FeedSource) FeedResult {
	url := string(src)
	lgr.Printf("[DEBUG] reading feed %s", url)

	entry, err := p.reader.ReadFirst(ctx, url)
	if err != nil {
		lgr.Printf("[WARN] can't read feed %s: %v", url, err)
		if errors.Is(err, feed.ErrEmptyFeed) || errors.Is(err, feed.ErrBadStatus) {
			return FeedResult{Feed: src, Status: StatusSkipped, Err: err}
		}
		return FeedResult{Feed: src, Status: StatusFailed, Err: err}
	}
	lgr.Printf("[DEBUG] found %q in %s", entry.Title, url)

	article, err := p.cleanEntry(ctx, entry)
	if err != nil {
		lgr.Printf("[INFO] skip %q from %s: %v", entry.Title, url, err)
		return FeedResult{Feed: src, Status: StatusSkipped, Err: err}
	}

	summary, err := p.summarizer.Summarize(ctx, article.Title, article.Body)
	if err != nil {
		lgr.Printf("[WARN] can't summarize %q from %s: %v", article.Title, url, err)
		return FeedResult{Feed: src, Status: StatusFailed, Err: err}
	}

	lgr.Printf("[INFO] summarized %q from %s", article.Title, url)
	return FeedResult{
		Feed:   src,
		Status: StatusOK,
		Record: &domain.NewsRecord{
			Summary:     *summary,
			Link:        article.Link,
			PublishedAt: p.now().UTC(),
		},
	}
}

// cleanEntry strips the entry body, falling back to the article page when the feed text is too short
func (p *Processor) cleanEntry(ctx context.Context, entry *domain.RawEntry) (*domain.CleanedArticle, error) {
	body, err := p.cleaner.Clean(entry.Body)
	if err != nil && errors.Is(err, content.ErrTooShort) && p.extractor != nil && entry.Link != "" {
		text, extErr := p.extractor.Extract(ctx, entry.Link)
		if extErr != nil {
			lgr.Printf("[WARN] can't extract article %s: %v", entry.Link, extErr)
			return nil, err
		}
		lgr.Printf("[DEBUG] extracted article text from %s", entry.Link)
		body, err = p.cleaner.Clean(text)
	}
	if err != nil {
		return nil, err
	}
	return &domain.CleanedArticle{Title: entry.Title, Link: entry.Link, Body: body}, nil
}

// Records returns the records of successful results, in feed order
func Records(results []FeedResult) []domain.NewsRecord {
	records := make([]domain.NewsRecord, 0, len(results))
	for _, r := range results {
		if r.Status == StatusOK && r.Record != nil {
			records = append(records, *r.Record)
		}
	}
	return records
}
