package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-pkgz/rest/realip"

	"github.com/finews/newsbrief/pkg/domain"
	"github.com/finews/newsbrief/pkg/scheduler"
)

// newsJSON is the API representation of a news record
type newsJSON struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Impact      string    `json:"impact"`
	Tag         string    `json:"tag"`
	Sentiment   string    `json:"sentiment"`
	Link        string    `json:"link"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// newsListResponse is returned by the news list endpoint
type newsListResponse struct {
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
	News       []newsJSON `json:"news"`
}

// refreshResponse is returned by the refresh endpoint after a completed cycle
type refreshResponse struct {
	Status    string               `json:"status"`
	CycleID   string               `json:"cycle_id"`
	Feeds     int                  `json:"feeds"`
	Processed int                  `json:"processed"`
	Saved     int                  `json:"saved"`
	Skipped   int                  `json:"skipped"`
	Failed    int                  `json:"failed"`
	Duration  string               `json:"duration"`
	Outcomes  []domain.FeedOutcome `json:"outcomes,omitempty"`
}

// statusHandler returns server status and the last cycle report, if any.
// Responds with 503 when the database is unreachable.
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":   "ok",
		"version":  s.version,
		"time":     time.Now().UTC(),
		"database": "ok",
	}
	code := http.StatusOK
	if err := s.db.Ping(r.Context()); err != nil {
		log.Printf("[WARN] status check, database unavailable: %v", err)
		status["status"], status["database"] = "degraded", "unavailable"
		code = http.StatusServiceUnavailable
	}
	if report, ok := s.scheduler.LastReport(); ok {
		status["last_cycle"] = report
	}
	renderJSON(w, r, code, status)
}

// listNewsHandler returns a page of news, newest first
func (s *Server) listNewsHandler(w http.ResponseWriter, r *http.Request) {
	pageSize := s.pageSize()
	page := pageParam(r)

	total, err := s.db.CountNews(r.Context())
	if err != nil {
		log.Printf("[ERROR] can't count news: %v", err)
		renderError(w, r, errors.New("failed to count news"), http.StatusInternalServerError)
		return
	}

	records, err := s.db.ListNews(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		log.Printf("[ERROR] can't list news: %v", err)
		renderError(w, r, errors.New("failed to load news"), http.StatusInternalServerError)
		return
	}

	resp := newsListResponse{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (total + pageSize - 1) / pageSize,
		News:       make([]newsJSON, 0, len(records)),
	}
	for _, rec := range records {
		resp.News = append(resp.News, newsJSON{
			ID:          rec.ID,
			Title:       rec.Summary.Title,
			Summary:     rec.Summary.Synopsis,
			Impact:      rec.Summary.Impact,
			Tag:         string(rec.Summary.Tag),
			Sentiment:   string(rec.Summary.Sentiment),
			Link:        rec.Link,
			URL:         s.generator.NewsURL(rec.ID),
			PublishedAt: rec.PublishedAt,
		})
	}
	renderJSON(w, r, http.StatusOK, resp)
}

// refreshHandler runs an ingestion cycle on demand and reports its outcome.
// The endpoint is disabled when no trigger token is configured.
func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	token := s.config.GetServerConfig().TriggerToken
	if token == "" {
		renderError(w, r, errors.New("not found"), http.StatusNotFound)
		return
	}

	provided := r.URL.Query().Get("token")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
		client := clientAddr(r)
		if !s.failedRefresh.allow(client) {
			renderError(w, r, errors.New("too many requests"), http.StatusTooManyRequests)
			return
		}
		log.Printf("[WARN] refresh rejected, invalid token from %s", client)
		renderError(w, r, errors.New("unauthorized"), http.StatusUnauthorized)
		return
	}

	if !s.refreshLimiter.Allow() {
		renderError(w, r, errors.New("too many requests"), http.StatusTooManyRequests)
		return
	}

	// a full cycle can outlast the server write timeout
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Printf("[DEBUG] can't clear write deadline: %v", err)
	}

	log.Printf("[INFO] refresh requested from %s", r.RemoteAddr)
	report, err := s.scheduler.RunNow(r.Context())
	if errors.Is(err, scheduler.ErrNoCycle) {
		renderError(w, r, errors.New("cycle not started"), http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		log.Printf("[ERROR] refresh cycle failed: %v", err)
		renderError(w, r, errors.New("cycle failed"), http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, refreshResponse{
		Status:    "ok",
		CycleID:   report.ID,
		Feeds:     report.Feeds,
		Processed: report.Processed,
		Saved:     report.Saved,
		Skipped:   report.Skipped,
		Failed:    report.Failed,
		Duration:  report.Duration.Round(time.Millisecond).String(),
		Outcomes:  report.Outcomes,
	})
}

// clientAddr returns the client IP, behind a proxy taken from the forwarding headers
func clientAddr(r *http.Request) string {
	ip, err := realip.Get(r)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
