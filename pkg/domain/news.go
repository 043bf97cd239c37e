package domain

import "time"

// Tag is the category assigned to a news item by the summarizer
type Tag string

// known tags, the prompt restricts the model to these values
const (
	TagCrypto  Tag = "Cripto"
	TagEconomy Tag = "Economia"
	TagDollar  Tag = "Dólar"
	TagStocks  Tag = "Ações"
)

// Tags lists all known tags in display order
var Tags = []Tag{TagCrypto, TagEconomy, TagDollar, TagStocks}

// Valid reports whether the tag belongs to the known set
func (t Tag) Valid() bool {
	for _, known := range Tags {
		if t == known {
			return true
		}
	}
	return false
}

// Sentiment is the tone assigned to a news item by the summarizer
type Sentiment string

// known sentiments
const (
	SentimentPositive Sentiment = "Positivo"
	SentimentNegative Sentiment = "Negativo"
	SentimentNeutral  Sentiment = "Neutro"
)

// Valid reports whether the sentiment belongs to the known set
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Summary is the structured result returned by the AI service.
// JSON keys match the wire format requested in the prompt.
type Summary struct {
	Title     string    `json:"titulo_viral"`
	Synopsis  string    `json:"resumo_simples"`
	Impact    string    `json:"impacto_bolso"`
	Tag       Tag       `json:"tag"`
	Sentiment Sentiment `json:"sentimento"`
}

// NewsRecord is a summarized article, pending or persisted
type NewsRecord struct {
	ID          int64
	Summary     Summary
	Link        string
	PublishedAt time.Time // when the article was processed
	CreatedAt   time.Time
}

// CycleReport describes the outcome of one ingestion cycle
type CycleReport struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Feeds     int           `json:"feeds"`
	Processed int           `json:"processed"` // records produced by the pipeline
	Saved     int           `json:"saved"`     // rows inserted
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Outcomes  []FeedOutcome `json:"outcomes"`
}

// FeedOutcome is the per-feed part of a cycle report
type FeedOutcome struct {
	Feed   FeedSource `json:"feed"`
	Status string     `json:"status"`
	Link   string     `json:"link,omitempty"`
	Error  string     `json:"error,omitempty"`
}
