package board

import "stockwatch/internal/domain/entity"

// ReconcileOrder merges a stored display order with current watchlist
// membership. Stored tickers no longer watched are dropped silently, and
// watched tickers missing from the stored order are appended in watchlist
// order. The result always contains exactly the watchlist tickers.
func ReconcileOrder(stored, watchlist []entity.Ticker) []entity.Ticker {
	watched := make(map[entity.Ticker]bool, len(watchlist))
	for _, t := range watchlist {
		watched[t] = true
	}

	out := make([]entity.Ticker, 0, len(watchlist))
	seen := make(map[entity.Ticker]bool, len(watchlist))
	for _, t := range stored {
		if watched[t] && !seen[t] {
			out = append(out, t)
			seen[t] = true
		}
	}
	for _, t := range watchlist {
		if !seen[t] {
			out = append(out, t)
			seen[t] = true
		}
	}
	return out
}
