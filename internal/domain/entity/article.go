package entity

import "time"

// Article represents one news article returned by the news provider.
type Article struct {
	Title       string
	Description string
	URL         string
	Source      string
	Image       string
	PublishedAt time.Time
}

// DailyDigest is a pre-computed one-shot summary of a ticker's news for the
// day, maintained by the background worker.
type DailyDigest struct {
	Ticker      Ticker
	Summary     string
	GeneratedAt time.Time
}
