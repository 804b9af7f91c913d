package dupcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/config"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

// Sentinel errors for the two classifier failure modes the API reports
// distinctly. Everything else surfaces as a generic wrapped error.
var (
	ErrRateLimited   = errors.New("classifier rate limit exceeded")
	ErrQuotaExceeded = errors.New("classifier quota exhausted")
)

// Classifier scores candidates against a draft submission. Implementations
// return the reported matches before confidence filtering.
type Classifier interface {
	Classify(ctx context.Context, draft models.SubmissionDraft, candidates []models.Candidate) ([]RawMatch, error)
}

// OpenAIClassifier calls the OpenAI chat completions API. A local token
// bucket smooths request bursts before they ever reach the API's own
// rate limiter.
type OpenAIClassifier struct {
	client  *openai.Client
	cfg     config.OpenAIConfig
	prompts *PromptBuilder
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewOpenAIClassifier builds a classifier from config.
func NewOpenAIClassifier(cfg config.OpenAIConfig, logger *slog.Logger) *OpenAIClassifier {
	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 60
	}
	return &OpenAIClassifier{
		client:  openai.NewClient(cfg.APIKey),
		cfg:     cfg,
		prompts: NewPromptBuilder(),
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
		logger:  logger,
	}
}

// Classify sends the draft and candidates to the model and parses its array.
// A parse failure on otherwise-successful output is returned as-is so the
// caller can decide how benign it is.
func (c *OpenAIClassifier) Classify(ctx context.Context, draft models.SubmissionDraft, candidates []models.Candidate) ([]RawMatch, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	apiCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(apiCtx, openai.ChatCompletionRequest{
		Model:               c.cfg.Model,
		Temperature:         c.cfg.Temperature,
		MaxCompletionTokens: c.cfg.MaxTokens,
		// JSON mode keeps output machine-readable; the tolerant parser
		// still guards against prose leaking through.
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: c.prompts.SystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: c.prompts.BuildUserPrompt(draft, candidates),
			},
		},
	})
	latency := time.Since(start)

	if err != nil {
		c.logger.Warn("classifier call failed",
			"model", c.cfg.Model,
			"candidates", len(candidates),
			"duration_ms", latency.Milliseconds(),
			"error", err)
		return nil, translateAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no completion choices returned from model %s", c.cfg.Model)
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("classifier call complete",
		"model", c.cfg.Model,
		"candidates", len(candidates),
		"duration_ms", latency.Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return ParseMatches(content)
}

// translateAPIError maps OpenAI errors onto the two sentinel conditions the
// handlers report distinctly.
func translateAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 429:
			// 429 covers both throttling and hard quota exhaustion; the
			// error code tells them apart.
			if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
				return fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErr.Message)
			}
			return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
		case 402:
			return fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErr.Message)
		}
		return fmt.Errorf("classifier api error (status %d): %w", apiErr.HTTPStatusCode, err)
	}
	if strings.Contains(err.Error(), "429") || strings.Contains(err.Error(), "Rate limit") {
		return fmt.Errorf("%w: %s", ErrRateLimited, err.Error())
	}
	return fmt.Errorf("classifier call failed: %w", err)
}
