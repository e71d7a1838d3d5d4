// Package entity defines the core domain entities and validation logic for
// the application. It contains the fundamental business objects such as
// Ticker, WatchlistEntry, and Article, along with their validation rules and
// domain-specific errors.
package entity

import (
	"fmt"
	"strings"
)

// maxTickerLength bounds symbol length; the longest real-world symbols
// (class shares, foreign listings) stay well under this.
const maxTickerLength = 12

// Ticker is an uppercase stock symbol identifying one tracked security.
// It is the primary key correlating a watchlist entry with all fetched data
// and is stable for the lifetime of a watchlist membership.
type Ticker string

// ParseTicker normalizes and validates a raw symbol string.
// Symbols are upper-cased; letters, digits, '.' and '-' are allowed.
func ParseTicker(raw string) (Ticker, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("%w: ticker is required", ErrInvalidTicker)
	}
	if len(s) > maxTickerLength {
		return "", fmt.Errorf("%w: %q is too long", ErrInvalidTicker, raw)
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-':
		default:
			return "", fmt.Errorf("%w: %q contains invalid character %q", ErrInvalidTicker, raw, r)
		}
	}
	return Ticker(s), nil
}

// String returns the symbol as a plain string.
func (t Ticker) String() string { return string(t) }

// Initial returns the first character of the symbol, used as the badge
// fallback when no company logo is available.
func (t Ticker) Initial() string {
	if t == "" {
		return "?"
	}
	return string(t[0])
}
