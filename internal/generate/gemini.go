package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/sitemd/sitemd/internal/document"
)

// SourceGemini is the metadata source tag for documents produced by the
// hosted model.
const SourceGemini = "gemini"

// GeminiOptions configures the hosted generator.
type GeminiOptions struct {
	APIKey    string
	BaseURL   string
	Model     string
	CharLimit int
}

// Gemini generates markdown with a Gemini model through its
// OpenAI-compatible chat endpoint.
type Gemini struct {
	client   *openai.Client
	model    string
	limit    int
	snippets SnippetProvider
	logger   zerolog.Logger
}

// NewGemini builds the hosted generator. snippets may be nil when no
// catalog exists yet.
func NewGemini(opts GeminiOptions, snippets SnippetProvider, logger zerolog.Logger) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	return &Gemini{
		client:   openai.NewClientWithConfig(cfg),
		model:    opts.Model,
		limit:    opts.CharLimit,
		snippets: snippets,
		logger:   logger,
	}, nil
}

// Name implements [Generator].
func (g *Gemini) Name() string {
	return SourceGemini
}

// Generate implements [Generator].
func (g *Gemini) Generate(ctx context.Context, html, url string) (string, error) {
	var snippetCtx string

	if g.snippets != nil {
		snippetCtx = g.snippets.Context(document.Domain(url))
	}

	prompt := BuildPrompt(html, url, snippetCtx, g.limit)
	requestID := uuid.NewString()

	g.logger.Debug().
		Str("request_id", requestID).
		Str("url", url).
		Int("prompt_chars", len(prompt)).
		Msg("requesting conversion")

	started := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini request %s: %w", requestID, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("gemini request %s: %w", requestID, ErrEmptyResponse)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	g.logger.Debug().
		Str("request_id", requestID).
		Dur("elapsed", time.Since(started)).
		Int("chars", len(content)).
		Msg("conversion complete")

	return content + "\n", nil
}

var (
	ErrMissingAPIKey = errors.New("missing GEMINI_API_KEY")
	ErrEmptyResponse = errors.New("model returned no choices")
)
