package board

import (
	"context"
	"sync"
	"time"

	"stockwatch/internal/cache"
)

// Manager hands out one Board per session. Boards are created lazily with
// their own in-memory cache store and dropped when the session ends, which
// is what bounds a session cache's lifetime.
type Manager struct {
	marketData MarketData
	news       NewsProvider
	analyst    Analyst
	logo       LogoResolver
	stagger    time.Duration

	mu      sync.Mutex
	boards  map[string]*Board
	lastUse map[string]time.Time
}

// NewManager wires a board manager over the shared providers.
func NewManager(marketData MarketData, news NewsProvider, an Analyst, logo LogoResolver, stagger time.Duration) *Manager {
	return &Manager{
		marketData: marketData,
		news:       news,
		analyst:    an,
		logo:       logo,
		stagger:    stagger,
		boards:     make(map[string]*Board),
		lastUse:    make(map[string]time.Time),
	}
}

// Board returns the session's board, creating it on first use.
func (m *Manager) Board(sessionID string) *Board {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.boards[sessionID]; ok {
		m.lastUse[sessionID] = time.Now()
		return b
	}

	store := cache.NewMemory()
	b := NewBoard(store, NewLoader(store, m.marketData, m.news, m.analyst), m.logo, m.stagger)
	m.boards[sessionID] = b
	m.lastUse[sessionID] = time.Now()
	return b
}

// Drop cancels any in-flight refresh and discards the session's board and
// cache.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	b := m.boards[sessionID]
	delete(m.boards, sessionID)
	delete(m.lastUse, sessionID)
	m.mu.Unlock()

	if b != nil {
		b.Cancel()
	}
}

// EvictIdle drops every board that has not been touched within maxIdle and
// reports how many were removed. Untouched boards belong to sessions whose
// tokens have long expired.
func (m *Manager) EvictIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	var stale []*Board
	for id, last := range m.lastUse {
		if last.Before(cutoff) {
			stale = append(stale, m.boards[id])
			delete(m.boards, id)
			delete(m.lastUse, id)
		}
	}
	m.mu.Unlock()

	for _, b := range stale {
		if b != nil {
			b.Cancel()
		}
	}
	return len(stale)
}

// Janitor evicts idle boards every interval until ctx is done.
func (m *Manager) Janitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle(maxIdle)
		}
	}
}

// Len reports how many session boards are live.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.boards)
}
