// Package market implements the TTL-bounded market price cache and the
// HTTP client that feeds it.
package market

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mariveth/lootsweep/internal/model"
	"github.com/mariveth/lootsweep/internal/service"
)

// Fetcher is the external price-lookup collaborator. Implementations
// may fail, time out, or return a result with no listings.
type Fetcher interface {
	FetchPrice(ctx context.Context, itemID model.ItemID, world string) (*model.MarketPriceResult, error)
}

// CacheOptions configures a Cache.
type CacheOptions struct {
	// World is the market world queried for prices.
	World string
	// TTL is the maximum age of a cached price before a read triggers
	// a refresh.
	TTL time.Duration
	// FetchTimeout bounds each individual fetch.
	FetchTimeout time.Duration
}

// Cache holds per-item market prices with TTL-driven refresh. Reads
// never block on the network: a stale or missing entry triggers an
// asynchronous fetch and the previous value (possibly nil) is returned
// immediately. Writes are last-write-wins by completion order: a slow
// fetch that resolves after a fresh one overwrites it, an accepted
// inconsistency. Failed fetches leave the cached entry untouched and
// are only retried by the next stale read or explicit refresh.
type Cache struct {
	fetcher  Fetcher
	store    service.Storage
	entries  map[model.ItemID]model.CachedPrice
	inFlight map[model.ItemID]struct{}
	now      func() time.Time
	opts     CacheOptions
	mu       sync.Mutex
	wg       sync.WaitGroup
}

// NewCache creates a cache backed by the given fetcher. store may be
// nil; when set, fetched prices are written through to it and Hydrate
// can reload them on startup.
func NewCache(fetcher Fetcher, store service.Storage, opts CacheOptions) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	return &Cache{
		fetcher:  fetcher,
		store:    store,
		entries:  make(map[model.ItemID]model.CachedPrice),
		inFlight: make(map[model.ItemID]struct{}),
		now:      time.Now,
		opts:     opts,
	}
}

// Hydrate loads previously fetched prices from storage into memory.
// Each entry keeps its original fetch timestamp, so stale ones will
// refresh on first read.
func (c *Cache) Hydrate(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	prices, err := c.store.GetAllPrices(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range prices {
		c.entries[p.ItemID] = p
	}

	slog.Debug("Hydrated price cache", "entries", len(prices))
	return nil
}

// GetPrice returns the cached price for an item, or nil when nothing
// has been fetched yet. A stale or missing entry additionally triggers
// one asynchronous fetch unless one is already pending for the id.
func (c *Cache) GetPrice(itemID model.ItemID, preferHQ bool) *model.CachedPrice {
	c.mu.Lock()
	entry, ok := c.entries[itemID]
	_, pending := c.inFlight[itemID]

	needsFetch := !ok || entry.Stale(c.now(), c.opts.TTL)
	if needsFetch && !pending {
		c.inFlight[itemID] = struct{}{}
		c.wg.Add(1)
		go c.fetch(itemID, preferHQ)
	}
	c.mu.Unlock()

	if !ok {
		return nil
	}
	return &entry
}

// Refresh forces a fetch for an item regardless of entry age, even
// when another fetch is already pending. Completion order decides
// which result sticks.
func (c *Cache) Refresh(itemID model.ItemID, preferHQ bool) {
	c.mu.Lock()
	c.inFlight[itemID] = struct{}{}
	c.mu.Unlock()

	c.wg.Add(1)
	go c.fetch(itemID, preferHQ)
}

// Wait blocks until every in-flight fetch has resolved. CLI commands
// use it before rendering; the in-game path never calls it.
func (c *Cache) Wait() {
	c.wg.Wait()
}

func (c *Cache) fetch(itemID model.ItemID, preferHQ bool) {
	defer c.wg.Done()

	// Detached from the triggering call: the reader has already moved
	// on, and a completed fetch is worth caching either way.
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.FetchTimeout)
	defer cancel()

	result, err := c.fetcher.FetchPrice(ctx, itemID, c.opts.World)

	c.mu.Lock()
	delete(c.inFlight, itemID)
	if err != nil || result == nil {
		c.mu.Unlock()
		slog.Warn("Price fetch failed, keeping cached value",
			"item_id", itemID, "error", err)
		return
	}

	price := result.BestPrice(preferHQ)
	if len(result.Listings) == 0 && result.MinPriceAll == 0 {
		price = model.PriceNoListings
	}

	entry := model.CachedPrice{
		ItemID:       itemID,
		PricePerUnit: price,
		FetchedAt:    c.now(),
	}
	c.entries[itemID] = entry
	c.mu.Unlock()

	if c.store != nil {
		if saveErr := c.store.SavePrice(ctx, entry); saveErr != nil {
			slog.Warn("Failed to persist fetched price",
				"item_id", itemID, "error", saveErr)
		}
	}

	slog.Debug("Cached market price",
		"item_id", itemID, "price_per_unit", price)
}
