package analyst

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/observability/metrics"
	"stockwatch/internal/resilience/circuitbreaker"
	"stockwatch/internal/resilience/retry"
)

// Claude implements Client using Anthropic's API. Every call goes through
// retry with backoff and a circuit breaker.
type Claude struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
}

// NewClaude creates a Claude analyst with the given API key.
func NewClaude(apiKey string) *Claude {
	cfg := LoadClaudeConfig()

	slog.Info("initialized claude analyst",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &Claude{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker: circuitbreaker.New(circuitbreaker.AnalystConfig()),
		retryConfig:    retry.AIAPIConfig(),
		config:         cfg,
	}
}

func (c *Claude) SummarizeNews(ctx context.Context, ticker entity.Ticker, companyName string, articles []entity.Article) (string, error) {
	if len(articles) == 0 {
		return "", ErrNoArticles
	}
	return c.complete(ctx, "summarize_news", newsSummaryPrompt(ticker, companyName, articles, c.config.MaxInputChars))
}

func (c *Claude) AnalyzeSentiment(ctx context.Context, ticker entity.Ticker, companyName string, articles []entity.Article) (SentimentReport, error) {
	if len(articles) == 0 {
		return SentimentReport{}, ErrNoArticles
	}
	raw, err := c.complete(ctx, "analyze_sentiment", sentimentPrompt(ticker, companyName, articles, c.config.MaxInputChars))
	if err != nil {
		return SentimentReport{}, err
	}
	return parseSentimentReport(raw, len(articles)), nil
}

func (c *Claude) SummarizeHeadlines(ctx context.Context, articles []entity.Article) ([]string, error) {
	if len(articles) == 0 {
		return nil, ErrNoArticles
	}
	raw, err := c.complete(ctx, "summarize_headlines", headlinesPrompt(articles, c.config.MaxInputChars))
	if err != nil {
		return nil, err
	}
	return parseNumberedLines(raw, len(articles)), nil
}

func (c *Claude) ExpandArticle(ctx context.Context, article entity.Article) (string, error) {
	return c.complete(ctx, "expand_article", articleDetailPrompt(article, c.config.MaxInputChars))
}

func (c *Claude) DailyDigest(ctx context.Context, ticker entity.Ticker, companyName string, articles []entity.Article) (string, error) {
	if len(articles) == 0 {
		return "", ErrNoArticles
	}
	return c.complete(ctx, "daily_digest", dailyDigestPrompt(ticker, companyName, articles, c.config.MaxInputChars))
}

// complete runs one prompt through retry and the circuit breaker.
func (c *Claude) complete(ctx context.Context, operation, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doComplete(ctx, operation, prompt)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude api circuit breaker open, request rejected",
					slog.String("service", "claude-api"),
					slog.String("operation", operation),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("claude %s failed after retries: %w", operation, retryErr)
	}

	return result, nil
}

// doComplete performs the actual API call without retry or circuit breaker.
func (c *Claude) doComplete(ctx context.Context, operation, prompt string) (string, error) {
	requestID := uuid.New().String()

	slog.InfoContext(ctx, "starting analyst call",
		slog.String("request_id", requestID),
		slog.String("operation", operation),
		slog.Int("prompt_length", len(prompt)))

	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})

	duration := time.Since(start)
	metrics.RecordAnalystCall(operation, duration)

	if err != nil {
		slog.ErrorContext(ctx, "analyst call failed",
			slog.String("request_id", requestID),
			slog.String("operation", operation),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	slog.InfoContext(ctx, "analyst call completed",
		slog.String("request_id", requestID),
		slog.String("operation", operation),
		slog.Int("response_length", len(textBlock.Text)),
		slog.Duration("duration", duration))

	return textBlock.Text, nil
}
