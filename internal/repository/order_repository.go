package repository

import (
	"context"

	"stockwatch/internal/domain/entity"
)

// OrderRepository persists the user's chosen card ordering independently of
// watchlist rows. A saved order is a best-effort hint that is reconciled
// against current membership at read time.
type OrderRepository interface {
	// Load returns the saved ticker order for the user; an empty slice
	// (not an error) when the user has never saved one.
	Load(ctx context.Context, userID int64) ([]entity.Ticker, error)
	// Save replaces the user's saved order atomically.
	Save(ctx context.Context, userID int64, order []entity.Ticker) error
}
