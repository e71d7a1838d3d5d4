package analyst

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/observability/metrics"
	"stockwatch/internal/resilience/circuitbreaker"
	"stockwatch/internal/resilience/retry"
)

// OpenAI implements Client using OpenAI's chat completion API. It is wired
// as the fallback provider when Claude is unavailable.
type OpenAI struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
}

// NewOpenAI creates an OpenAI analyst with the given API key.
func NewOpenAI(apiKey string) *OpenAI {
	cfg := LoadOpenAIConfig()

	slog.Info("initialized openai analyst",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &OpenAI{
		client:         openai.NewClient(apiKey),
		circuitBreaker: circuitbreaker.New(circuitbreaker.AnalystConfig()),
		retryConfig:    retry.AIAPIConfig(),
		config:         cfg,
	}
}

func (o *OpenAI) SummarizeNews(ctx context.Context, ticker entity.Ticker, companyName string, articles []entity.Article) (string, error) {
	if len(articles) == 0 {
		return "", ErrNoArticles
	}
	return o.complete(ctx, "summarize_news", newsSummaryPrompt(ticker, companyName, articles, o.config.MaxInputChars))
}

func (o *OpenAI) AnalyzeSentiment(ctx context.Context, ticker entity.Ticker, companyName string, articles []entity.Article) (SentimentReport, error) {
	if len(articles) == 0 {
		return SentimentReport{}, ErrNoArticles
	}
	raw, err := o.complete(ctx, "analyze_sentiment", sentimentPrompt(ticker, companyName, articles, o.config.MaxInputChars))
	if err != nil {
		return SentimentReport{}, err
	}
	return parseSentimentReport(raw, len(articles)), nil
}

func (o *OpenAI) SummarizeHeadlines(ctx context.Context, articles []entity.Article) ([]string, error) {
	if len(articles) == 0 {
		return nil, ErrNoArticles
	}
	raw, err := o.complete(ctx, "summarize_headlines", headlinesPrompt(articles, o.config.MaxInputChars))
	if err != nil {
		return nil, err
	}
	return parseNumberedLines(raw, len(articles)), nil
}

func (o *OpenAI) ExpandArticle(ctx context.Context, article entity.Article) (string, error) {
	return o.complete(ctx, "expand_article", articleDetailPrompt(article, o.config.MaxInputChars))
}

func (o *OpenAI) DailyDigest(ctx context.Context, ticker entity.Ticker, companyName string, articles []entity.Article) (string, error) {
	if len(articles) == 0 {
		return "", ErrNoArticles
	}
	return o.complete(ctx, "daily_digest", dailyDigestPrompt(ticker, companyName, articles, o.config.MaxInputChars))
}

func (o *OpenAI) complete(ctx context.Context, operation, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doComplete(ctx, operation, prompt)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("operation", operation),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("openai %s failed after retries: %w", operation, retryErr)
	}

	return result, nil
}

func (o *OpenAI) doComplete(ctx context.Context, operation, prompt string) (string, error) {
	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})

	duration := time.Since(start)
	metrics.RecordAnalystCall(operation, duration)

	if err != nil {
		slog.ErrorContext(ctx, "analyst call failed",
			slog.String("operation", operation),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned empty response")
	}

	return resp.Choices[0].Message.Content, nil
}
