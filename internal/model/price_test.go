package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarketPriceResult_BestPrice(t *testing.T) {
	tests := []struct {
		name     string
		result   MarketPriceResult
		preferHQ bool
		want     int64
	}{
		{
			name: "minimum of all listings",
			result: MarketPriceResult{Listings: []MarketListing{
				{PricePerUnit: 900},
				{PricePerUnit: 500},
				{PricePerUnit: 700},
			}},
			want: 500,
		},
		{
			name: "prefer HQ takes cheapest HQ even when NQ is cheaper",
			result: MarketPriceResult{Listings: []MarketListing{
				{PricePerUnit: 100},
				{PricePerUnit: 800, HighQuality: true},
				{PricePerUnit: 600, HighQuality: true},
			}},
			preferHQ: true,
			want:     600,
		},
		{
			name: "prefer HQ with no HQ listings falls back to all",
			result: MarketPriceResult{Listings: []MarketListing{
				{PricePerUnit: 300},
				{PricePerUnit: 250},
			}},
			preferHQ: true,
			want:     250,
		},
		{
			name:   "no listings falls back to aggregate",
			result: MarketPriceResult{MinPriceAll: 420},
			want:   420,
		},
		{
			name:   "no listings and no aggregate yields zero",
			result: MarketPriceResult{},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.BestPrice(tt.preferHQ))
		})
	}
}

func TestCachedPrice_Stale(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	price := CachedPrice{ItemID: 5333, PricePerUnit: 500, FetchedAt: base}

	assert.False(t, price.Stale(base.Add(30*time.Minute), 30*time.Minute))
	assert.True(t, price.Stale(base.Add(31*time.Minute), 30*time.Minute))
}
