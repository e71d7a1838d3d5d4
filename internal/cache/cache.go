// Package cache implements the per-session response cache backing stock
// cards. Entries are raw JSON payloads keyed by ticker and data kind, so a
// card can be rehydrated without touching upstream providers.
package cache

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"stockwatch/internal/domain/entity"
)

// Kind names a cacheable slice of card data.
type Kind string

const (
	KindPriceSentiment   Kind = "price_sentiment"
	KindNews             Kind = "news"
	KindDailySummary     Kind = "daily_summary"
	KindArticleSummaries Kind = "article_summaries"
)

// keyPrefix namespaces all card entries so Clear can wipe them without
// touching unrelated keys a store might also hold.
const keyPrefix = "stock_"

// Key builds the cache key for a ticker's data kind.
func Key(ticker entity.Ticker, kind Kind) string {
	return fmt.Sprintf("%s%s_%s", keyPrefix, ticker, kind)
}

// Store is a key-value cache of raw JSON payloads. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get returns the payload for key and whether it was present.
	Get(key string) (json.RawMessage, bool)

	// Set stores the payload under key, replacing any previous value.
	Set(key string, value json.RawMessage)

	// Delete removes a single key.
	Delete(key string)

	// Clear removes every card entry, leaving other keys intact.
	Clear()

	// Len reports the number of stored entries.
	Len() int
}

// Memory is an in-memory Store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]json.RawMessage
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]json.RawMessage)}
}

func (m *Memory) Get(key string) (json.RawMessage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

func (m *Memory) Set(key string, value json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, keyPrefix) {
			delete(m.entries, k)
		}
	}
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// GetJSON decodes the cached payload for key into v. It returns false when
// the key is absent or the payload does not decode, treating a corrupt
// entry the same as a miss.
func GetJSON(s Store, key string, v interface{}) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.Delete(key)
		return false
	}
	return true
}

// SetJSON encodes v and stores it under key. Encoding failures leave the
// cache untouched.
func SetJSON(s Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	s.Set(key, raw)
	return nil
}
