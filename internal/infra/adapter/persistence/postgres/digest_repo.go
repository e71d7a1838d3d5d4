package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/repository"
)

type DigestRepo struct {
	db *sql.DB
}

func NewDigestRepo(db *sql.DB) repository.DigestRepository {
	return &DigestRepo{db: db}
}

func (repo *DigestRepo) Get(ctx context.Context, ticker entity.Ticker) (*entity.DailyDigest, error) {
	const query = `
SELECT ticker, summary, generated_at
FROM daily_summaries
WHERE ticker = $1`
	var digest entity.DailyDigest
	err := repo.db.QueryRowContext(ctx, query, ticker.String()).Scan(
		&digest.Ticker, &digest.Summary, &digest.GeneratedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("Get: %w", entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &digest, nil
}

func (repo *DigestRepo) Upsert(ctx context.Context, digest *entity.DailyDigest) error {
	const query = `
INSERT INTO daily_summaries (ticker, summary, generated_at)
VALUES ($1, $2, $3)
ON CONFLICT (ticker) DO UPDATE SET summary = EXCLUDED.summary, generated_at = EXCLUDED.generated_at`
	if _, err := repo.db.ExecContext(ctx, query,
		digest.Ticker.String(), digest.Summary, digest.GeneratedAt); err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}
