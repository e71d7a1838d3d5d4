package board

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"stockwatch/internal/cache"
	"stockwatch/internal/domain/entity"
	"stockwatch/internal/observability/metrics"
)

// DefaultStagger is the delay between successive card load starts. Started
// loads proceed concurrently; the stagger only bounds the peak request rate
// against the upstream providers.
const DefaultStagger = 300 * time.Millisecond

// defaultLogoInterval paces the lower-priority logo stream.
const defaultLogoInterval = 150 * time.Millisecond

// Board is one session's card engine. Refresh fans out card loads under
// the stagger policy, and a new Refresh cancels any still-running previous
// one so two refreshes never race to commit the same snapshot.
type Board struct {
	store   cache.Store
	loader  *Loader
	logo    LogoResolver
	stagger time.Duration

	mu     sync.Mutex
	cards  []CardState
	gen    uint64
	cancel context.CancelFunc
}

// NewBoard builds a board over its own cache store.
func NewBoard(store cache.Store, loader *Loader, logo LogoResolver, stagger time.Duration) *Board {
	if stagger <= 0 {
		stagger = DefaultStagger
	}
	return &Board{
		store:   store,
		loader:  loader,
		logo:    logo,
		stagger: stagger,
	}
}

// Refresh loads every entry's card and returns the settled states in input
// order. Individual provider failures degrade only their own card; Refresh
// itself fails only when ctx is cancelled before completion.
//
// When force is set, the session cache is cleared and loading skeletons are
// committed before any request is issued, so a concurrent Snapshot never
// shows stale content mid-refresh.
func (b *Board) Refresh(ctx context.Context, entries []entity.WatchlistEntry, force bool) []CardState {
	start := time.Now()

	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	refreshCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.gen++
	gen := b.gen
	if force {
		b.store.Clear()
		b.cards = skeletons(entries)
	}
	b.mu.Unlock()

	results := make([]CardState, len(entries))
	logos := make([]string, len(entries))

	g := new(errgroup.Group)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			select {
			case <-time.After(time.Duration(i) * b.stagger):
			case <-refreshCtx.Done():
				results[i] = skeleton(entry)
				return nil
			}
			results[i] = b.loader.LoadCard(refreshCtx, entry, force)
			return nil
		})
	}

	// Logo resolution is a separate stream with its own pacing. It never
	// blocks on card loads and card loads never block on it.
	g.Go(func() error {
		limiter := rate.NewLimiter(rate.Every(defaultLogoInterval), 1)
		for i, entry := range entries {
			if err := limiter.Wait(refreshCtx); err != nil {
				return nil
			}
			logos[i] = b.logo.LogoURL(entry.Ticker)
		}
		return nil
	})

	_ = g.Wait()

	for i := range results {
		results[i].LogoURL = logos[i]
	}

	// A newer refresh may have started while this one ran. Only the
	// current generation commits its snapshot.
	b.mu.Lock()
	if b.gen == gen {
		b.cards = results
		b.cancel = nil
	}
	b.mu.Unlock()

	metrics.RecordBoardRefresh(force, time.Since(start))
	return results
}

// Snapshot returns the last committed card states.
func (b *Board) Snapshot() []CardState {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]CardState, len(b.cards))
	copy(out, b.cards)
	return out
}

// Cancel aborts an in-flight refresh, if any.
func (b *Board) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

func skeletons(entries []entity.WatchlistEntry) []CardState {
	out := make([]CardState, len(entries))
	for i, e := range entries {
		out[i] = skeleton(e)
	}
	return out
}

func skeleton(entry entity.WatchlistEntry) CardState {
	return CardState{
		Ticker:      entry.Ticker,
		CompanyName: entry.CompanyName,
		Loading:     true,
	}
}
