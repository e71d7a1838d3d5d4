package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/repository"
)

type WatchlistRepo struct {
	db *sql.DB
}

func NewWatchlistRepo(db *sql.DB) repository.WatchlistRepository {
	return &WatchlistRepo{db: db}
}

func (repo *WatchlistRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.WatchlistEntry, error) {
	const query = `
SELECT id, user_id, stock_ticker, company_name, date_added
FROM watchlist
WHERE user_id = $1
ORDER BY date_added DESC`
	rows, err := repo.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*entity.WatchlistEntry, 0, 16)
	for rows.Next() {
		var e entity.WatchlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Ticker, &e.CompanyName, &e.DateAdded); err != nil {
			return nil, fmt.Errorf("ListByUser: Scan: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (repo *WatchlistRepo) Get(ctx context.Context, userID int64, ticker entity.Ticker) (*entity.WatchlistEntry, error) {
	const query = `
SELECT id, user_id, stock_ticker, company_name, date_added
FROM watchlist
WHERE user_id = $1 AND stock_ticker = $2`
	var e entity.WatchlistEntry
	err := repo.db.QueryRowContext(ctx, query, userID, ticker.String()).Scan(
		&e.ID, &e.UserID, &e.Ticker, &e.CompanyName, &e.DateAdded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("Get: %w", entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &e, nil
}

func (repo *WatchlistRepo) Add(ctx context.Context, entry *entity.WatchlistEntry) error {
	const query = `
INSERT INTO watchlist (user_id, stock_ticker, company_name, date_added)
VALUES ($1, $2, $3, $4)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Ticker.String(), entry.CompanyName, entry.DateAdded).Scan(&entry.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Add: %w", entity.ErrAlreadyExists)
		}
		return fmt.Errorf("Add: %w", err)
	}
	return nil
}

func (repo *WatchlistRepo) Remove(ctx context.Context, userID int64, ticker entity.Ticker) error {
	const query = `DELETE FROM watchlist WHERE user_id = $1 AND stock_ticker = $2`
	result, err := repo.db.ExecContext(ctx, query, userID, ticker.String())
	if err != nil {
		return fmt.Errorf("Remove: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("Remove: RowsAffected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("Remove: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *WatchlistRepo) ListAllTickers(ctx context.Context) ([]entity.Ticker, error) {
	const query = `SELECT DISTINCT stock_ticker FROM watchlist ORDER BY stock_ticker`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListAllTickers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tickers := make([]entity.Ticker, 0, 32)
	for rows.Next() {
		var t entity.Ticker
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("ListAllTickers: Scan: %w", err)
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}
