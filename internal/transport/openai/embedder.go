package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/fittingroom/fitsearch/internal/domain"
	"github.com/fittingroom/fitsearch/internal/metrics"
)

const baseBackoff = 250 * time.Millisecond

// Embedder is an embedding provider using the OpenAI-compatible API.
// Transient upstream failures (rate limiting, 5xx) are retried with
// exponential backoff up to a bounded attempt count.
type Embedder struct {
	client      *openai.Client
	model       openai.EmbeddingModel
	dimensions  int
	maxAttempts int
	logger      *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Dimensions  int
	MaxAttempts int
	Logger      *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 4
	}

	return &Embedder{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       openai.EmbeddingModel(cfg.Model),
		dimensions:  cfg.Dimensions,
		maxAttempts: attempts,
		logger:      cfg.Logger,
	}
}

// Embed implements domain.Embedder. Returns the vector and token usage.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()

	resp, err := e.createWithRetry(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(string(e.model), "error").Inc()
		return domain.EmbeddingResult{}, parseAPIError(err)
	}

	if len(resp.Data) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(string(e.model), "error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrUpstream)
	}

	vec := resp.Data[0].Embedding
	if e.dimensions > 0 && len(vec) != e.dimensions {
		metrics.EmbeddingRequestsTotal.WithLabelValues(string(e.model), "error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("provider returned %d dimensions, expected %d: %w",
			len(vec), e.dimensions, domain.ErrVectorDimMismatch)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(string(e.model), "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(string(e.model)).Observe(duration.Seconds())

	return domain.EmbeddingResult{
		Embedding:    vec,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// createWithRetry retries transient failures with exponential backoff
// (250ms, 500ms, 1s, ...). Non-retryable errors and context cancellation
// abort immediately.
func (e *Embedder) createWithRetry(
	ctx context.Context, req openai.EmbeddingRequest,
) (openai.EmbeddingResponse, error) {
	var lastErr error

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if attempt > 0 {
			metrics.EmbeddingRetriesTotal.WithLabelValues(string(e.model)).Inc()
			select {
			case <-ctx.Done():
				return openai.EmbeddingResponse{}, ctx.Err()
			case <-time.After(baseBackoff << (attempt - 1)):
			}
		}

		resp, err := e.client.CreateEmbeddings(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryable(err) {
			break
		}
		if e.logger != nil {
			e.logger.Warn("transient embedding failure, retrying",
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", e.maxAttempts),
				zap.Error(err),
			)
		}
	}

	return openai.EmbeddingResponse{}, lastErr
}

// isRetryable reports whether the API error is a rate limit or server error.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	return false
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrUpstream so callers degrade
// instead of failing the request.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), domain.ErrUpstream)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrUpstream)
	}

	return fmt.Errorf("embedding request failed: %w: %w", domain.ErrUpstream, err)
}
