package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"

	"github.com/finews/newsbrief/pkg/domain"
)

//go:generate moq -out mocks/news_store.go -pkg mocks -skip-ensure -fmt goimports . NewsStore

// ErrNoCycle is returned by RunNow when the cycle could not start
var ErrNoCycle = errors.New("cycle not started")

// Pipeline produces news records from the configured feeds
type Pipeline interface {
	Run(ctx context.Context) []FeedResult
}

// NewsStore persists news records, skipping already stored links
type NewsStore interface {
	SaveNews(ctx context.Context, records []domain.NewsRecord) (int, error)
}

// Scheduler runs ingestion cycles periodically and on demand.
// Only one cycle runs at a time, timer and manual triggers share the same lock.
type Scheduler struct {
	pipeline       Pipeline
	store          NewsStore
	updateInterval time.Duration

	cycleLock chan struct{} // one-slot semaphore, a cycle holds it while running
	mu        sync.RWMutex
	last      *domain.CycleReport

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// Params contains all dependencies and configuration for the scheduler
type Params struct {
	Pipeline       Pipeline
	Store          NewsStore
	UpdateInterval time.Duration
}

// NewScheduler creates a new scheduler instance
func NewScheduler(params Params) *Scheduler {
	if params.UpdateInterval <= 0 {
		params.UpdateInterval = 30 * time.Minute
	}
	return &Scheduler{
		pipeline:       params.Pipeline,
		store:          params.Store,
		updateInterval: params.UpdateInterval,
		cycleLock:      make(chan struct{}, 1),
	}
}

// Start runs the first cycle right away and then every update interval,
// until ctx is cancelled or Stop is called. It doesn't block.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.cycleWorker(ctx)

	lgr.Printf("[INFO] scheduler started with update interval %v", s.updateInterval)
}

// Stop gracefully stops the scheduler, a running cycle is not interrupted and Stop waits for it
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

func (s *Scheduler) cycleWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	// run immediately on start
	s.runScheduled(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runScheduled(ctx)
		}
	}
}

func (s *Scheduler) runScheduled(ctx context.Context) {
	if _, err := s.RunNow(ctx); err != nil && !errors.Is(err, ErrNoCycle) {
		lgr.Printf("[WARN] scheduled cycle: %v", err)
	}
}

// RunNow runs one full cycle: all feeds through the pipeline, then the results stored.
// If another cycle is running it waits for it, giving up with ErrNoCycle when ctx is done first.
// ctx bounds only the wait, a started cycle runs to completion and its summaries are always saved.
func (s *Scheduler) RunNow(ctx context.Context) (domain.CycleReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.CycleReport{}, fmt.Errorf("%w: %w", ErrNoCycle, err)
	}
	select {
	case s.cycleLock <- struct{}{}:
	case <-ctx.Done():
		return domain.CycleReport{}, fmt.Errorf("%w: %w", ErrNoCycle, ctx.Err())
	}
	defer func() { <-s.cycleLock }()

	// keeps ctx values, drops its cancellation
	ctx = context.WithoutCancel(ctx)

	report := domain.CycleReport{ID: uuid.NewString(), StartedAt: time.Now().UTC()}
	lgr.Printf("[INFO] cycle %s started", report.ID)

	results := s.pipeline.Run(ctx)
	report.Feeds = len(results)
	for _, r := range results {
		outcome := domain.FeedOutcome{Feed: r.Feed, Status: string(r.Status)}
		switch r.Status {
		case StatusOK:
			report.Processed++
			if r.Record != nil {
				outcome.Link = r.Record.Link
			}
		case StatusSkipped:
			report.Skipped++
		case StatusFailed:
			report.Failed++
		}
		if r.Err != nil {
			outcome.Error = r.Err.Error()
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	var saveErr error
	if records := Records(results); len(records) > 0 {
		report.Saved, saveErr = s.store.SaveNews(ctx, records)
	}
	report.Duration = time.Since(report.StartedAt)
	s.setLastReport(report)

	if saveErr != nil {
		lgr.Printf("[ERROR] cycle %s failed to save news, saved %d of %d: %v",
			report.ID, report.Saved, report.Processed, saveErr)
		return report, fmt.Errorf("save news: %w", saveErr)
	}

	lgr.Printf("[INFO] cycle %s completed in %v: feeds=%d, processed=%d, saved=%d, skipped=%d, failed=%d",
		report.ID, report.Duration.Round(time.Millisecond), report.Feeds, report.Processed, report.Saved,
		report.Skipped, report.Failed)
	return report, nil
}

// LastReport returns the report of the most recent cycle, false if none has run yet
func (s *Scheduler) LastReport() (domain.CycleReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return domain.CycleReport{}, false
	}
	return *s.last, true
}

func (s *Scheduler) setLastReport(r domain.CycleReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &r
}
