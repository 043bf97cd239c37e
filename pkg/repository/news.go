package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/finews/newsbrief/pkg/domain"
)

// NewsRepository handles news-related database operations
type NewsRepository struct {
	db *sqlx.DB
}

// newsSQL is the database representation of a news record
type newsSQL struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Summary     string    `db:"summary"`
	Impact      string    `db:"impact"`
	Tag         string    `db:"tag"`
	Sentiment   string    `db:"sentiment"`
	Link        string    `db:"link"`
	PublishedAt time.Time `db:"published_at"`
	CreatedAt   time.Time `db:"created_at"`
}

const newsColumns = `id, title, summary, impact, tag, sentiment, link, published_at, created_at`

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// SaveNews inserts every record whose link is not stored yet and returns how many were inserted.
// Inserted records get their ID set. Each insert commits on its own, so on error the rows saved
// before the failure stay and their count is returned with the error.
func (r *NewsRepository) SaveNews(ctx context.Context, records []domain.NewsRecord) (int, error) {
	query := r.db.Rebind(`
		INSERT INTO news (title, summary, impact, tag, sentiment, link, published_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(link) DO NOTHING
		RETURNING id
	`)

	saved := 0
	for i := range records {
		rec := &records[i]
		if rec.Link == "" {
			lgr.Printf("[WARN] skip news without link, %q", rec.Summary.Title)
			continue
		}

		id, inserted, err := r.insertNews(ctx, query, rec)
		if err != nil {
			return saved, fmt.Errorf("save news %s: %w", rec.Link, err)
		}
		if !inserted {
			lgr.Printf("[DEBUG] news already stored, %s", rec.Link)
			continue
		}
		rec.ID = id
		saved++
	}
	return saved, nil
}

// insertNews runs a single insert-if-absent, retrying on lock errors
func (r *NewsRepository) insertNews(ctx context.Context, query string, rec *domain.NewsRecord) (id int64, inserted bool, err error) {
	now := time.Now().UTC()
	published := rec.PublishedAt.UTC()
	if rec.PublishedAt.IsZero() {
		published = now
	}

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err = retrier.Do(ctx, func() error {
		qErr := r.db.GetContext(ctx, &id, query, rec.Summary.Title, rec.Summary.Synopsis, rec.Summary.Impact,
			string(rec.Summary.Tag), string(rec.Summary.Sentiment), rec.Link, published, now)
		switch {
		case qErr == nil:
			inserted = true
			return nil
		case errors.Is(qErr, sql.ErrNoRows):
			// conflict on link, nothing inserted
			inserted = false
			return nil
		case isLockError(qErr):
			return qErr // repeater will retry this
		default:
			return fmt.Errorf("%w: insert news: %w", errCritical, qErr)
		}
	}, errCritical)
	if err != nil {
		return 0, false, err
	}

	if inserted {
		rec.PublishedAt = published
		rec.CreatedAt = now
	}
	return id, inserted, nil
}

// ListNews returns news ordered from newest to oldest
func (r *NewsRepository) ListNews(ctx context.Context, limit, offset int) ([]domain.NewsRecord, error) {
	query := r.db.Rebind(`SELECT ` + newsColumns + ` FROM news
		ORDER BY published_at DESC, id DESC
		LIMIT ? OFFSET ?`)

	var rows []newsSQL
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}

	records := make([]domain.NewsRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].toDomain()
	}
	return records, nil
}

// CountNews returns the total number of stored news
func (r *NewsRepository) CountNews(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM news"); err != nil {
		return 0, fmt.Errorf("count news: %w", err)
	}
	return count, nil
}

// GetNews retrieves a news record by ID, ErrNotFound if there is none
func (r *NewsRepository) GetNews(ctx context.Context, id int64) (*domain.NewsRecord, error) {
	var row newsSQL
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+newsColumns+` FROM news WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get news %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get news %d: %w", id, err)
	}
	rec := row.toDomain()
	return &rec, nil
}

// Ping checks the database is reachable
func (r *NewsRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (n *newsSQL) toDomain() domain.NewsRecord {
	return domain.NewsRecord{
		ID: n.ID,
		Summary: domain.Summary{
			Title:     n.Title,
			Synopsis:  n.Summary,
			Impact:    n.Impact,
			Tag:       domain.Tag(n.Tag),
			Sentiment: domain.Sentiment(n.Sentiment),
		},
		Link:        n.Link,
		PublishedAt: n.PublishedAt,
		CreatedAt:   n.CreatedAt,
	}
}
