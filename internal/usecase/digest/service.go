// Package digest implements the background use case that precomputes daily
// news digests for every tracked ticker.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/infra/analyst"
	"stockwatch/internal/repository"
)

const (
	// newsParallelism bounds concurrent feed fetches (I/O bound).
	newsParallelism = 10

	// analystParallelism bounds concurrent AI calls (rate limited).
	analystParallelism = 3
)

// NewsProvider supplies recent coverage for a company.
type NewsProvider interface {
	Search(ctx context.Context, companyName string, ticker entity.Ticker) ([]entity.Article, error)
}

// Service computes and stores daily digests for all tracked tickers. It is
// driven by the cron worker.
type Service struct {
	Watchlist repository.WatchlistRepository
	Digests   repository.DigestRepository
	News      NewsProvider
	Analyst   analyst.Client
}

// RunStats summarizes one digest run.
type RunStats struct {
	Tickers    int
	Written    int64
	Empty      int64
	FetchError int64
	AIError    int64
	Duration   time.Duration
}

// RunAll builds a digest for every distinct tracked ticker. Two semaphore
// tiers bound the fan-out: news fetches run wider than analyst calls.
// Per-ticker failures are counted and skipped; only context cancellation
// and storage failures abort the run.
func (s *Service) RunAll(ctx context.Context) (*RunStats, error) {
	logger := slog.Default()
	start := time.Now()
	stats := &RunStats{}

	tickers, err := s.Watchlist.ListAllTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tracked tickers: %w", err)
	}
	stats.Tickers = len(tickers)

	newsSem := make(chan struct{}, newsParallelism)
	analystSem := make(chan struct{}, analystParallelism)
	eg, egCtx := errgroup.WithContext(ctx)

	for _, ticker := range tickers {
		ticker := ticker

		eg.Go(func() error {
			newsSem <- struct{}{}
			articles, err := s.News.Search(egCtx, ticker.String(), ticker)
			<-newsSem

			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				atomic.AddInt64(&stats.FetchError, 1)
				logger.Warn("digest news fetch failed, skipping ticker",
					slog.String("ticker", ticker.String()),
					slog.Any("error", err))
				return nil
			}
			if len(articles) == 0 {
				atomic.AddInt64(&stats.Empty, 1)
				return nil
			}

			analystSem <- struct{}{}
			defer func() { <-analystSem }()

			summary, err := s.Analyst.DailyDigest(egCtx, ticker, ticker.String(), articles)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				atomic.AddInt64(&stats.AIError, 1)
				logger.Warn("digest generation failed, skipping ticker",
					slog.String("ticker", ticker.String()),
					slog.Any("error", err))
				return nil
			}

			digest := &entity.DailyDigest{
				Ticker:      ticker,
				Summary:     summary,
				GeneratedAt: time.Now().UTC(),
			}
			if err := s.Digests.Upsert(egCtx, digest); err != nil {
				return fmt.Errorf("store digest for %s: %w", ticker, err)
			}
			atomic.AddInt64(&stats.Written, 1)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	logger.Info("digest run completed",
		slog.Int("tickers", stats.Tickers),
		slog.Int64("written", stats.Written),
		slog.Int64("empty", stats.Empty),
		slog.Int64("fetch_errors", stats.FetchError),
		slog.Int64("ai_errors", stats.AIError),
		slog.Duration("duration", stats.Duration),
	)

	return stats, nil
}

// Latest returns the stored digest for one ticker.
func (s *Service) Latest(ctx context.Context, ticker entity.Ticker) (*entity.DailyDigest, error) {
	digest, err := s.Digests.Get(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("get digest: %w", err)
	}
	return digest, nil
}
