package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finews/newsbrief/pkg/domain"
)

func setupTestDB(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewRepositories(context.Background(), Config{DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func testRecord(n int, published time.Time) domain.NewsRecord {
	return domain.NewsRecord{
		Summary: domain.Summary{
			Title:     fmt.Sprintf("Notícia %d", n),
			Synopsis:  fmt.Sprintf("Resumo %d", n),
			Impact:    fmt.Sprintf("Impacto %d", n),
			Tag:       domain.TagEconomy,
			Sentiment: domain.SentimentNeutral,
		},
		Link:        fmt.Sprintf("https://example.com/news/%d", n),
		PublishedAt: published,
	}
}

func TestNewsRepository_SaveNews(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	batch := []domain.NewsRecord{testRecord(1, base), testRecord(2, base.Add(time.Minute))}

	t.Run("first run inserts all", func(t *testing.T) {
		saved, err := repos.News.SaveNews(ctx, batch)
		require.NoError(t, err)
		assert.Equal(t, 2, saved)
		assert.NotZero(t, batch[0].ID)
		assert.NotZero(t, batch[1].ID)
		assert.NotEqual(t, batch[0].ID, batch[1].ID)
		assert.False(t, batch[0].CreatedAt.IsZero())
	})

	t.Run("second run inserts nothing", func(t *testing.T) {
		again := []domain.NewsRecord{testRecord(1, base), testRecord(2, base.Add(time.Minute))}
		saved, err := repos.News.SaveNews(ctx, again)
		require.NoError(t, err)
		assert.Equal(t, 0, saved)
		assert.Zero(t, again[0].ID)

		count, err := repos.News.CountNews(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("duplicates within a batch stored once", func(t *testing.T) {
		dup := []domain.NewsRecord{testRecord(3, base), testRecord(3, base), testRecord(4, base)}
		saved, err := repos.News.SaveNews(ctx, dup)
		require.NoError(t, err)
		assert.Equal(t, 2, saved)
	})

	t.Run("empty link skipped", func(t *testing.T) {
		rec := testRecord(5, base)
		rec.Link = ""
		saved, err := repos.News.SaveNews(ctx, []domain.NewsRecord{rec})
		require.NoError(t, err)
		assert.Equal(t, 0, saved)
	})

	t.Run("zero published time uses now", func(t *testing.T) {
		recs := []domain.NewsRecord{testRecord(6, time.Time{})}
		saved, err := repos.News.SaveNews(ctx, recs)
		require.NoError(t, err)
		assert.Equal(t, 1, saved)
		assert.WithinDuration(t, time.Now(), recs[0].PublishedAt, time.Minute)
	})

	t.Run("empty batch", func(t *testing.T) {
		saved, err := repos.News.SaveNews(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, saved)
	})
}

func TestNewsRepository_SaveNews_ClosedDB(t *testing.T) {
	repos, err := NewRepositories(context.Background(), Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, repos.Close())

	start := time.Now()
	saved, err := repos.News.SaveNews(context.Background(), []domain.NewsRecord{testRecord(1, time.Now())})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errCritical))
	assert.Equal(t, 0, saved)
	assert.Less(t, time.Since(start), time.Second, "critical errors are not retried")
}

func TestNewsRepository_ListNews(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	recs := make([]domain.NewsRecord, 5)
	for i := range recs {
		recs[i] = testRecord(i+1, base.Add(time.Duration(i)*time.Hour))
	}
	saved, err := repos.News.SaveNews(ctx, recs)
	require.NoError(t, err)
	require.Equal(t, 5, saved)

	t.Run("newest first", func(t *testing.T) {
		list, err := repos.News.ListNews(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 5)
		assert.Equal(t, "Notícia 5", list[0].Summary.Title)
		assert.Equal(t, "Notícia 1", list[4].Summary.Title)
		assert.Equal(t, domain.TagEconomy, list[0].Summary.Tag)
		assert.Equal(t, domain.SentimentNeutral, list[0].Summary.Sentiment)
		assert.Equal(t, "https://example.com/news/5", list[0].Link)
		assert.True(t, list[0].PublishedAt.Equal(base.Add(4*time.Hour)))
	})

	t.Run("pagination", func(t *testing.T) {
		page2, err := repos.News.ListNews(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, page2, 2)
		assert.Equal(t, "Notícia 3", page2[0].Summary.Title)
		assert.Equal(t, "Notícia 2", page2[1].Summary.Title)

		past, err := repos.News.ListNews(ctx, 2, 10)
		require.NoError(t, err)
		assert.Empty(t, past)
	})
}

func TestNewsRepository_GetNews(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	recs := []domain.NewsRecord{testRecord(1, time.Now())}
	_, err := repos.News.SaveNews(ctx, recs)
	require.NoError(t, err)

	got, err := repos.News.GetNews(ctx, recs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, recs[0].ID, got.ID)
	assert.Equal(t, recs[0].Summary, got.Summary)
	assert.Equal(t, recs[0].Link, got.Link)

	_, err = repos.News.GetNews(ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewsRepository_Ping(t *testing.T) {
	repos := setupTestDB(t)
	require.NoError(t, repos.News.Ping(context.Background()))

	require.NoError(t, repos.Close())
	err := repos.News.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping database")
}
