package db

import "database/sql"

// MigrateUp creates the schema if it does not exist. Statements are
// idempotent so repeated startups are safe.
func MigrateUp(database *sql.DB) error {
	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id            SERIAL PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    last_login    TIMESTAMPTZ
)`); err != nil {
		return err
	}

	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS watchlist (
    id           SERIAL PRIMARY KEY,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    stock_ticker TEXT NOT NULL,
    company_name TEXT NOT NULL,
    date_added   TIMESTAMPTZ DEFAULT now(),
    UNIQUE (user_id, stock_ticker)
)`); err != nil {
		return err
	}

	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS stock_order (
    user_id    INTEGER PRIMARY KEY REFERENCES users(id),
    tickers    JSONB NOT NULL,
    updated_at TIMESTAMPTZ DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS daily_summaries (
    ticker       TEXT PRIMARY KEY,
    summary      TEXT NOT NULL,
    generated_at TIMESTAMPTZ NOT NULL
)`); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_watchlist_user_id ON watchlist(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watchlist_date_added ON watchlist(date_added DESC)`,
	}
	for _, idx := range indexes {
		if _, err := database.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}
