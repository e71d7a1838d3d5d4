package entity

import "time"

// User represents an account that owns a watchlist.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	LastLogin    *time.Time
}

// WatchlistEntry represents one tracked security on a user's watchlist.
// Uniqueness invariant: (UserID, Ticker).
type WatchlistEntry struct {
	ID          int64
	UserID      int64
	Ticker      Ticker
	CompanyName string
	DateAdded   time.Time
}

// Validate validates the watchlist entry fields.
func (e *WatchlistEntry) Validate() error {
	if e.UserID <= 0 {
		return &ValidationError{Field: "user_id", Message: "must be positive"}
	}
	if _, err := ParseTicker(string(e.Ticker)); err != nil {
		return &ValidationError{Field: "ticker", Message: err.Error()}
	}
	if e.CompanyName == "" {
		return &ValidationError{Field: "company_name", Message: "is required"}
	}
	return nil
}
