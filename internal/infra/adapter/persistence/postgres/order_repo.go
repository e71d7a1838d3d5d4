package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/repository"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) repository.OrderRepository {
	return &OrderRepo{db: db}
}

func (repo *OrderRepo) Load(ctx context.Context, userID int64) ([]entity.Ticker, error) {
	const query = `SELECT tickers FROM stock_order WHERE user_id = $1`
	var raw []byte
	err := repo.db.QueryRowContext(ctx, query, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []entity.Ticker{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	var order []entity.Ticker
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("Load: unmarshal saved order: %w", err)
	}
	return order, nil
}

func (repo *OrderRepo) Save(ctx context.Context, userID int64, order []entity.Ticker) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("Save: marshal order: %w", err)
	}

	const query = `
INSERT INTO stock_order (user_id, tickers, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE SET tickers = EXCLUDED.tickers, updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.ExecContext(ctx, query, userID, raw, time.Now()); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}
