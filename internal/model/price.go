package model

import "time"

// PriceNoListings is the cached sentinel for "lookup succeeded but the
// market board had no listings for this item".
const PriceNoListings int64 = -1

// CachedPrice is one market-board price observation. It is overwritten
// wholesale on each successful fetch and read-only between fetches.
type CachedPrice struct {
	FetchedAt    time.Time
	ItemID       ItemID
	PricePerUnit int64
}

// Stale reports whether the observation is older than the given TTL.
func (p CachedPrice) Stale(now time.Time, ttl time.Duration) bool {
	return now.Sub(p.FetchedAt) > ttl
}

// MarketListing is one active sell offer returned by the price provider.
type MarketListing struct {
	PricePerUnit int64
	Quantity     int
	HighQuality  bool
}

// MarketPriceResult is the raw payload of one price lookup. MinPriceAll
// is the provider's pre-aggregated minimum, used as a fallback when the
// listing page is empty; 0 means no data.
type MarketPriceResult struct {
	Listings    []MarketListing
	ItemID      ItemID
	MinPriceAll int64
}

// BestPrice applies the listing selection rule: prefer the cheapest HQ
// listing when preferHQ is set and one exists, otherwise the cheapest
// listing overall, otherwise the pre-aggregated minimum.
func (r MarketPriceResult) BestPrice(preferHQ bool) int64 {
	if len(r.Listings) == 0 {
		return r.MinPriceAll
	}

	if preferHQ {
		best := int64(0)
		found := false
		for _, l := range r.Listings {
			if !l.HighQuality {
				continue
			}
			if !found || l.PricePerUnit < best {
				best = l.PricePerUnit
				found = true
			}
		}
		if found {
			return best
		}
	}

	best := r.Listings[0].PricePerUnit
	for _, l := range r.Listings[1:] {
		if l.PricePerUnit < best {
			best = l.PricePerUnit
		}
	}
	return best
}
