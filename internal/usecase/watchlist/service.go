// Package watchlist implements the watchlist management use cases: listing,
// adding, removing tracked stocks and maintaining the user's card order.
package watchlist

import (
	"context"
	"errors"
	"fmt"

	"stockwatch/internal/board"
	"stockwatch/internal/domain/entity"
	"stockwatch/internal/infra/market"
	"stockwatch/internal/repository"
)

// QuoteProvider validates tickers and resolves company names on add.
type QuoteProvider interface {
	Quote(ctx context.Context, ticker entity.Ticker) (market.Quote, error)
}

// Service provides watchlist management use cases. It validates tickers
// against the market provider and keeps the saved card order consistent
// with membership.
type Service struct {
	Repo   repository.WatchlistRepository
	Orders repository.OrderRepository
	Market QuoteProvider
}

// List returns the user's entries arranged by the saved card order. Saved
// tickers no longer watched are dropped and unsaved ones are appended, so
// the result always matches current membership.
func (s *Service) List(ctx context.Context, userID int64) ([]*entity.WatchlistEntry, error) {
	entries, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}

	stored, err := s.Orders.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load card order: %w", err)
	}

	return arrange(entries, stored), nil
}

// Add validates the ticker, resolves the company name when none is given,
// and inserts the entry. Adding an already-watched ticker returns the
// existing entry without error.
func (s *Service) Add(ctx context.Context, userID int64, rawTicker, companyName string) (*entity.WatchlistEntry, error) {
	ticker, err := entity.ParseTicker(rawTicker)
	if err != nil {
		return nil, err
	}

	if existing, err := s.Repo.Get(ctx, userID, ticker); err == nil {
		return existing, nil
	} else if !errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("check watchlist: %w", err)
	}

	quote, err := s.Market.Quote(ctx, ticker)
	switch {
	case errors.Is(err, market.ErrUnknownSymbol):
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidTicker, ticker)
	case err != nil && !errors.Is(err, market.ErrNoData):
		return nil, fmt.Errorf("validate ticker: %w", err)
	}

	if companyName == "" {
		companyName = quote.CompanyName
	}
	if companyName == "" {
		companyName = ticker.String()
	}

	entry := &entity.WatchlistEntry{
		UserID:      userID,
		Ticker:      ticker,
		CompanyName: companyName,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Add(ctx, entry); err != nil {
		if errors.Is(err, entity.ErrAlreadyExists) {
			return s.Repo.Get(ctx, userID, ticker)
		}
		return nil, fmt.Errorf("add to watchlist: %w", err)
	}

	return entry, nil
}

// Remove deletes the entry and drops the ticker from the saved order.
func (s *Service) Remove(ctx context.Context, userID int64, rawTicker string) error {
	ticker, err := entity.ParseTicker(rawTicker)
	if err != nil {
		return err
	}

	if err := s.Repo.Remove(ctx, userID, ticker); err != nil {
		return fmt.Errorf("remove from watchlist: %w", err)
	}

	stored, err := s.Orders.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load card order: %w", err)
	}
	pruned := stored[:0]
	for _, t := range stored {
		if t != ticker {
			pruned = append(pruned, t)
		}
	}
	if len(pruned) != len(stored) {
		if err := s.Orders.Save(ctx, userID, pruned); err != nil {
			return fmt.Errorf("save card order: %w", err)
		}
	}

	return nil
}

// Order returns the user's effective card order, reconciled against
// current membership.
func (s *Service) Order(ctx context.Context, userID int64) ([]entity.Ticker, error) {
	entries, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	stored, err := s.Orders.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load card order: %w", err)
	}
	return board.ReconcileOrder(stored, tickersOf(entries)), nil
}

// SetOrder commits a new card order. The input is reconciled against
// current membership before saving, so the stored order is always exactly
// the watched tickers.
func (s *Service) SetOrder(ctx context.Context, userID int64, rawOrder []string) ([]entity.Ticker, error) {
	order := make([]entity.Ticker, 0, len(rawOrder))
	for _, raw := range rawOrder {
		t, err := entity.ParseTicker(raw)
		if err != nil {
			return nil, err
		}
		order = append(order, t)
	}

	entries, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}

	reconciled := board.ReconcileOrder(order, tickersOf(entries))
	if err := s.Orders.Save(ctx, userID, reconciled); err != nil {
		return nil, fmt.Errorf("save card order: %w", err)
	}
	return reconciled, nil
}

// arrange sorts entries by the stored order hint, appending entries the
// hint does not mention in their listing order.
func arrange(entries []*entity.WatchlistEntry, stored []entity.Ticker) []*entity.WatchlistEntry {
	byTicker := make(map[entity.Ticker]*entity.WatchlistEntry, len(entries))
	for _, e := range entries {
		byTicker[e.Ticker] = e
	}

	ordered := board.ReconcileOrder(stored, tickersOf(entries))
	out := make([]*entity.WatchlistEntry, 0, len(entries))
	for _, t := range ordered {
		out = append(out, byTicker[t])
	}
	return out
}

func tickersOf(entries []*entity.WatchlistEntry) []entity.Ticker {
	out := make([]entity.Ticker, len(entries))
	for i, e := range entries {
		out[i] = e.Ticker
	}
	return out
}
