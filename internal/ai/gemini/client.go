// Package gemini implements the classifier port on top of the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/hireloop/screener/internal/ai"
	"github.com/hireloop/screener/internal/logger"
)

const (
	defaultModel        = "gemini-2.0-flash"
	defaultMaxLogLength = 200

	retryBackoff = 2 * time.Second
	// Quota errors advertising a longer delay than this are not worth
	// blocking an interactive screening run for.
	maxQuotaDelay = 10 * time.Second
)

// sleep is stubbed in tests to avoid real backoff delays.
var sleep = time.Sleep

var retryAfterRe = regexp.MustCompile(`retry after (\d+)`)

// Config holds the explicit settings for the Gemini classifier. The API key
// is resolved by the caller at composition time.
type Config struct {
	APIKey       string
	Model        string
	MaxRetries   int
	MaxLogLength int
}

type contentCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Classifier calls the Gemini API and returns raw text replies. It retries
// temporary API errors a bounded number of times.
type Classifier struct {
	models     contentCaller
	model      string
	maxRetries int
	maxLogLen  int
	logger     *zap.Logger
}

// New creates a Classifier backed by the Gemini API.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Classifier, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Classifier{
		models:     client.Models,
		model:      model,
		maxRetries: cfg.MaxRetries,
		maxLogLen:  maxLogLen,
		logger:     log.With(zap.String("provider", "gemini"), zap.String("model", model)),
	}, nil
}

// Classify sends the prompt to Gemini and returns the first textual response.
// Transport and quota failures are wrapped in ai.ErrUnavailable.
func (c *Classifier) Classify(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.models == nil {
		return "", errors.New("gemini classifier is not initialized")
	}

	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt must not be empty")
	}

	attempts := c.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
		if err != nil {
			lastErr = err
			if attempt < attempts && retryable(err) {
				c.logger.Warn("gemini call failed, retrying",
					zap.Int("attempt", attempt),
					zap.Int("max_attempts", attempts),
					zap.Error(err),
				)
				sleep(retryBackoff)
				continue
			}
			return "", fmt.Errorf("%w: %v", ai.ErrUnavailable, err)
		}

		text := collectText(resp)
		if text == "" {
			return "", fmt.Errorf("%w: gemini api returned empty response", ai.ErrUnavailable)
		}

		c.logger.Debug("gemini response",
			zap.Int("response_length", utf8.RuneCountInString(text)),
			zap.String("response_preview", logger.Truncate(text, c.maxLogLen)),
		)

		return text, nil
	}

	return "", fmt.Errorf("%w: %v", ai.ErrUnavailable, lastErr)
}

// Model returns the configured model name.
func (c *Classifier) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

// retryable reports whether the error is a temporary API condition worth
// another attempt. Quota errors that advertise a long delay are not.
func retryable(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	if apiErr.Code == http.StatusTooManyRequests {
		return quotaDelay(apiErr.Message) <= maxQuotaDelay
	}

	return apiErr.Code >= http.StatusInternalServerError
}

func quotaDelay(message string) time.Duration {
	match := retryAfterRe.FindStringSubmatch(strings.ToLower(message))
	if len(match) != 2 {
		return 0
	}

	seconds, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}

	return time.Duration(seconds) * time.Second
}
