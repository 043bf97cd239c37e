package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/finews/newsbrief/pkg/config"
	"github.com/finews/newsbrief/pkg/domain"
)

// defaultMaxBodyChars limits the article body sent to the model
const defaultMaxBodyChars = 1500

// ErrBadResponse is returned when the model reply can't be turned into a summary
var ErrBadResponse = errors.New("bad llm response")

// Summarizer uses LLM to summarize and classify financial news
type Summarizer struct {
	client    *openai.Client
	config    config.LLMConfig
	systemMsg string
}

// NewSummarizer creates a new LLM summarizer
func NewSummarizer(cfg config.LLMConfig) *Summarizer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	}

	// use custom system prompt if provided, otherwise use default
	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}
	if cfg.MaxBodyChars <= 0 {
		cfg.MaxBodyChars = defaultMaxBodyChars
	}

	return &Summarizer{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemMsg,
	}
}

// default system prompt for news summarization
const defaultSystemPrompt = `Você é um editor de finanças pessoais que escreve para leitores comuns no Brasil.
Explique notícias financeiras de forma simples, direta e sem jargão.
Responda sempre em português do Brasil e apenas com JSON válido.`

// Summarize sends the article to the model and returns the parsed summary.
// No retry is made, a failed call means no summary for this article.
func (s *Summarizer) Summarize(ctx context.Context, title, body string) (*domain.Summary, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       s.config.Model,
		Temperature: float32(s.config.Temperature),
		MaxTokens:   s.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: s.systemMsg,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: s.buildPrompt(title, body),
			},
		},
	}

	// add JSON response format if enabled
	if s.config.UseJSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := s.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("llm request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrBadResponse)
	}

	summary, err := parseSummary(resp.Choices[0].Message.Content)
	if err != nil {
		lgr.Printf("[WARN] can't parse llm response for %q: %v", title, err)
		return nil, err
	}

	if !summary.Tag.Valid() {
		lgr.Printf("[WARN] unexpected tag %q for %q", summary.Tag, title)
	}
	if !summary.Sentiment.Valid() {
		lgr.Printf("[WARN] unexpected sentiment %q for %q", summary.Sentiment, title)
	}
	return summary, nil
}

// buildPrompt creates the prompt for the LLM
func (s *Summarizer) buildPrompt(title, body string) string {
	tags := make([]string, 0, len(domain.Tags))
	for _, t := range domain.Tags {
		tags = append(tags, string(t))
	}

	var sb strings.Builder
	sb.WriteString("Analise esta notícia financeira:\n")
	sb.WriteString(fmt.Sprintf("Título: %s\n", title))
	sb.WriteString(fmt.Sprintf("Conteúdo: %s\n\n", truncateRunes(body, s.config.MaxBodyChars)))
	sb.WriteString("Retorne APENAS um objeto JSON válido neste formato exato, sem blocos de código:\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "titulo_viral": "título curto chamativo",` + "\n")
	sb.WriteString(`  "resumo_simples": "resumo em 2 linhas",` + "\n")
	sb.WriteString(`  "impacto_bolso": "efeito no dinheiro das pessoas",` + "\n")
	sb.WriteString(fmt.Sprintf(`  "tag": "escolha entre: %s",`+"\n", strings.Join(tags, ", ")))
	sb.WriteString(fmt.Sprintf(`  "sentimento": "%s, %s ou %s"`+"\n", domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral))
	sb.WriteString("}")
	return sb.String()
}

// parseSummary extracts the JSON object from the model reply, tolerating markdown fences
func parseSummary(content string) (*domain.Summary, error) {
	text := strings.ReplaceAll(content, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start >= end {
		return nil, fmt.Errorf("%w: no json object found", ErrBadResponse)
	}

	var summary domain.Summary
	if err := json.Unmarshal([]byte(text[start:end+1]), &summary); err != nil {
		return nil, fmt.Errorf("%w: failed to parse json: %w", ErrBadResponse, err)
	}
	if strings.TrimSpace(summary.Title) == "" {
		return nil, fmt.Errorf("%w: missing titulo_viral", ErrBadResponse)
	}
	return &summary, nil
}

// truncateRunes cuts s to at most n characters without splitting a multibyte rune
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
