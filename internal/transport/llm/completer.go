package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/fittingroom/fitsearch/internal/domain"
)

// Completer wraps an OpenAI-compatible chat model behind the interpreter's
// Complete contract.
type Completer struct {
	client  llms.Model
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds chat model settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	TimeoutSec int
	Logger     *zap.Logger
}

// NewCompleter creates a chat completion client.
func NewCompleter(cfg *Config) (*Completer, error) {
	token := cfg.APIKey
	if token == "" {
		// Local OpenAI-compatible services don't require authentication;
		// hosted ones will reject the call and the interpreter falls back.
		token = "none"
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create chat client: %w", err)
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Completer{client: client, timeout: timeout, logger: cfg.Logger}, nil
}

// Complete sends a system+user message pair and returns the raw model text.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userText)},
		},
	}

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		return "", fmt.Errorf("generate content: %w: %w", domain.ErrUpstream, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned: %w", domain.ErrUpstream)
	}

	return response.Choices[0].Content, nil
}
