package dataset

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// CachedProvider keeps the last loaded snapshot in memory.
//
// Readers share the snapshot under a read lock. Refresh builds a new snapshot
// outside the lock and swaps it in, so a failed refresh leaves the previous
// snapshot in place.
type CachedProvider struct {
	loader Provider
	logger zerolog.Logger

	mu       sync.RWMutex
	snapshot *Tables

	// serialises loads so concurrent misses trigger a single read
	loadMu sync.Mutex
}

// NewCachedProvider wraps loader with an in-memory snapshot.
func NewCachedProvider(loader Provider, logger zerolog.Logger) *CachedProvider {
	return &CachedProvider{
		loader: loader,
		logger: logger.With().Str("component", "dataset-cache").Logger(),
	}
}

func (c *CachedProvider) current() *Tables {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Tables returns the cached snapshot, loading it on first use or after Invalidate.
func (c *CachedProvider) Tables(ctx context.Context) (*Tables, error) {
	if t := c.current(); t != nil {
		return t, nil
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	// another caller may have loaded while we waited
	if t := c.current(); t != nil {
		return t, nil
	}

	return c.load(ctx)
}

// Refresh reloads the snapshot unconditionally.
func (c *CachedProvider) Refresh(ctx context.Context) (*Tables, error) {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	t, err := c.load(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("refresh failed, keeping previous snapshot")
		return nil, err
	}
	return t, nil
}

// load must be called with loadMu held.
func (c *CachedProvider) load(ctx context.Context) (*Tables, error) {
	t, err := c.loader.Tables(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = t
	c.mu.Unlock()

	c.logger.Info().
		Str("snapshot_id", t.ID.String()).
		Time("loaded_at", t.LoadedAt).
		Msg("snapshot cached")

	return t, nil
}

// Invalidate drops the snapshot; the next Tables call reloads.
func (c *CachedProvider) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()

	c.logger.Info().Msg("snapshot invalidated")
}
