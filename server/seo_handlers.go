package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/finews/newsbrief/pkg/feed"
)

const (
	rssLimit     = 50
	sitemapLimit = 50000 // sitemap protocol maximum, static pages included
)

// robotsHandler allows crawling everything and points to the sitemap
func (s *Server) robotsHandler(w http.ResponseWriter, _ *http.Request) {
	base := strings.TrimRight(s.config.GetServerConfig().BaseURL, "/")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nAllow: /\nSitemap: %s/sitemap.xml\n", base)
}

// adsHandler serves the configured ads.txt line, 404 when none is configured
func (s *Server) adsHandler(w http.ResponseWriter, r *http.Request) {
	ads := strings.TrimSpace(s.config.GetServerConfig().AdsTxt)
	if ads == "" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, ads)
}

// sitemapHandler lists the static pages and one URL per stored news item
func (s *Server) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.ListNews(r.Context(), sitemapLimit-len(feed.StaticPages), 0)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load news", err)
		return
	}

	sitemap, err := s.generator.GenerateSitemap(records)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to generate sitemap", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	fmt.Fprint(w, sitemap)
}

// rssHandler serves an RSS 2.0 feed with the latest summaries
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.ListNews(r.Context(), rssLimit, 0)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load news", err)
		return
	}

	rss, err := s.generator.GenerateRSS(records)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to generate RSS", err)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	fmt.Fprint(w, rss)
}
