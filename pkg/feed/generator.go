package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/finews/newsbrief/pkg/domain"
)

// StaticPages are the site paths listed in the sitemap besides the news pages
var StaticPages = []string{"/", "/privacidade", "/termos"}

// Generator creates RSS feeds and sitemaps from stored news
type Generator struct {
	baseURL   string
	siteTitle string
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL, siteTitle string) *Generator {
	return &Generator{
		baseURL:   strings.TrimRight(baseURL, "/"),
		siteTitle: siteTitle,
	}
}

// NewsURL returns the absolute URL of a news page
func (g *Generator) NewsURL(id int64) string {
	return fmt.Sprintf("%s/news/%d", g.baseURL, id)
}

// GenerateRSS creates an RSS 2.0 feed from news records
func (g *Generator) GenerateRSS(records []domain.NewsRecord) (string, error) {
	rssItems := make([]*RSSItem, 0, len(records))
	for _, rec := range records {
		rssItems = append(rssItems, g.convertToRSSItem(rec))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         g.siteTitle,
			Link:          g.baseURL + "/",
			Description:   "Notícias financeiras resumidas por IA",
			Language:      "pt-br",
			AtomLink:      &AtomLink{Href: g.baseURL + "/rss", Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: time.Now().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}

	return xml.Header + string(output), nil
}

// convertToRSSItem converts a news record to an RSS item, linking to the local page
func (g *Generator) convertToRSSItem(rec domain.NewsRecord) *RSSItem {
	desc := rec.Summary.Synopsis
	if rec.Summary.Impact != "" {
		desc += "\n\nImpacto no bolso: " + rec.Summary.Impact
	}

	var categories []string
	if rec.Summary.Tag != "" {
		categories = append(categories, string(rec.Summary.Tag))
	}

	return &RSSItem{
		Title:       rec.Summary.Title,
		Link:        g.NewsURL(rec.ID),
		GUID:        rec.Link,
		Description: desc,
		PubDate:     rec.PublishedAt.Format(time.RFC1123Z),
		Categories:  categories,
	}
}

// GenerateSitemap creates a sitemap with the static pages followed by one entry per news record
func (g *Generator) GenerateSitemap(records []domain.NewsRecord) (string, error) {
	urls := make([]SitemapURL, 0, len(StaticPages)+len(records))
	for _, page := range StaticPages {
		priority := "0.8"
		if page == "/" {
			priority = "1.0"
		}
		urls = append(urls, SitemapURL{Loc: g.baseURL + page, ChangeFreq: "hourly", Priority: priority})
	}

	for _, rec := range records {
		urls = append(urls, SitemapURL{
			Loc:        g.NewsURL(rec.ID),
			LastMod:    rec.PublishedAt.UTC().Format("2006-01-02"),
			ChangeFreq: "never",
			Priority:   "0.6",
		})
	}

	output, err := xml.MarshalIndent(URLSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9", URLs: urls}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sitemap: %w", err)
	}

	return xml.Header + string(output), nil
}
