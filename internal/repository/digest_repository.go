package repository

import (
	"context"

	"stockwatch/internal/domain/entity"
)

// DigestRepository stores the worker-maintained daily news digests.
type DigestRepository interface {
	// Get returns the latest digest for the ticker, or entity.ErrNotFound.
	Get(ctx context.Context, ticker entity.Ticker) (*entity.DailyDigest, error)
	// Upsert inserts or replaces the digest for its ticker.
	Upsert(ctx context.Context, digest *entity.DailyDigest) error
}
