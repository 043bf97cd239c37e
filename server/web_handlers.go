package server

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/finews/newsbrief/pkg/domain"
	"github.com/finews/newsbrief/pkg/repository"
)

// maxPageButtons limits the page links shown by the pagination bar
const maxPageButtons = 5

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("02/01/2006 15:04")
	},
	"isoDate": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
	"tagClass":       tagClass,
	"sentimentClass": sentimentClass,
}

// pageData holds the fields every page layout needs
type pageData struct {
	SiteTitle string
	BaseURL   string
	Canonical string
	Year      int
}

// indexPageData is the data for the home page
type indexPageData struct {
	pageData
	News        []domain.NewsRecord
	Page        int
	TotalPages  int
	Total       int
	PageNumbers []int
	PrevPage    int // zero when there is no previous page
	NextPage    int // zero when there is no next page
}

// newsPageData is the data for a single news page
type newsPageData struct {
	pageData
	News domain.NewsRecord
}

// indexHandler renders the home page with the latest news, newest first
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	pageSize := s.pageSize()
	page := pageParam(r)

	total, err := s.db.CountNews(r.Context())
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to count news", err)
		return
	}

	news, err := s.db.ListNews(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load news", err)
		return
	}

	totalPages := (total + pageSize - 1) / pageSize
	data := indexPageData{
		pageData:    s.newPageData("/"),
		News:        news,
		Page:        page,
		TotalPages:  totalPages,
		Total:       total,
		PageNumbers: generatePageNumbers(page, totalPages),
	}
	if page > 1 {
		data.PrevPage = page - 1
	}
	if page < totalPages {
		data.NextPage = page + 1
	}

	if err := s.renderPage(w, pageIndex, data); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
	}
}

// newsHandler renders a single news item
func (s *Server) newsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.respondWithError(w, http.StatusNotFound, "News not found", nil)
		return
	}

	rec, err := s.db.GetNews(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		s.respondWithError(w, http.StatusNotFound, "News not found", nil)
		return
	}
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load news", err)
		return
	}

	data := newsPageData{pageData: s.newPageData(fmt.Sprintf("/news/%d", id)), News: *rec}
	if err := s.renderPage(w, pageNews, data); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
	}
}

func (s *Server) privacyHandler(w http.ResponseWriter, _ *http.Request) {
	if err := s.renderPage(w, pagePrivacy, s.newPageData("/privacidade")); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
	}
}

func (s *Server) termsHandler(w http.ResponseWriter, _ *http.Request) {
	if err := s.renderPage(w, pageTerms, s.newPageData("/termos")); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
	}
}

// renderPage renders a pre-parsed page template
func (s *Server) renderPage(w http.ResponseWriter, templateName string, data any) error {
	tmpl, ok := s.pageTemplates[templateName]
	if !ok {
		return fmt.Errorf("template %s not found", templateName)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "base", data)
}

func (s *Server) newPageData(path string) pageData {
	srvCfg := s.config.GetServerConfig()
	base := strings.TrimRight(srvCfg.BaseURL, "/")
	return pageData{
		SiteTitle: srvCfg.SiteTitle,
		BaseURL:   base,
		Canonical: base + path,
		Year:      time.Now().Year(),
	}
}

func (s *Server) pageSize() int {
	if size := s.config.GetServerConfig().PageSize; size > 0 {
		return size
	}
	return 20
}

// pageParam returns the 1-based page number from the query, 1 when missing or invalid
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// generatePageNumbers returns a window of page numbers around the current page
func generatePageNumbers(current, total int) []int {
	if total <= 1 {
		return nil
	}

	start := max(current-maxPageButtons/2, 1)
	end := start + maxPageButtons - 1
	if end > total {
		end = total
		start = max(end-maxPageButtons+1, 1)
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// tagClass maps a tag to a css class name
func tagClass(t domain.Tag) string {
	switch t {
	case domain.TagCrypto:
		return "tag-crypto"
	case domain.TagEconomy:
		return "tag-economy"
	case domain.TagDollar:
		return "tag-dollar"
	case domain.TagStocks:
		return "tag-stocks"
	default:
		return "tag-other"
	}
}

// sentimentClass maps a sentiment to a css class name
func sentimentClass(s domain.Sentiment) string {
	switch s {
	case domain.SentimentPositive:
		return "sentiment-positive"
	case domain.SentimentNegative:
		return "sentiment-negative"
	default:
		return "sentiment-neutral"
	}
}
