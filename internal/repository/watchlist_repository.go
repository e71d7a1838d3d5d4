package repository

import (
	"context"

	"stockwatch/internal/domain/entity"
)

type WatchlistRepository interface {
	// ListByUser returns the user's entries ordered by date added (newest first).
	ListByUser(ctx context.Context, userID int64) ([]*entity.WatchlistEntry, error)
	// Get returns the entry for (userID, ticker), or entity.ErrNotFound.
	Get(ctx context.Context, userID int64, ticker entity.Ticker) (*entity.WatchlistEntry, error)
	// Add inserts an entry; duplicate (userID, ticker) pairs yield entity.ErrAlreadyExists.
	Add(ctx context.Context, entry *entity.WatchlistEntry) error
	Remove(ctx context.Context, userID int64, ticker entity.Ticker) error
	// ListAllTickers returns the distinct tickers tracked by any user,
	// used by the background digest worker.
	ListAllTickers(ctx context.Context) ([]entity.Ticker, error)
}
