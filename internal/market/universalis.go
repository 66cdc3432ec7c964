package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mariveth/lootsweep/internal/model"
)

// DefaultUniversalisURL is the public Universalis API endpoint.
const DefaultUniversalisURL = "https://universalis.app"

// maxListings bounds how many listings one lookup requests; only the
// minimum matters, but a few extra cover HQ/NQ selection.
const maxListings = 20

// UniversalisClient implements the Fetcher interface against the
// Universalis market board API.
type UniversalisClient struct {
	baseURL    string
	httpClient *http.Client
}

// Universalis API response types.
type marketDataResponse struct {
	Listings []listing `json:"listings"`
	MinPrice int64     `json:"minPrice"`
	ItemID   uint32    `json:"itemID"`
}

type listing struct {
	PricePerUnit int64 `json:"pricePerUnit"`
	Quantity     int   `json:"quantity"`
	HQ           bool  `json:"hq"`
}

// NewUniversalisClient creates a client for the given base URL, using
// the default public endpoint when baseURL is empty.
func NewUniversalisClient(baseURL string, timeout time.Duration) *UniversalisClient {
	if baseURL == "" {
		baseURL = DefaultUniversalisURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &UniversalisClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchPrice looks up current listings for one item on one world.
func (c *UniversalisClient) FetchPrice(ctx context.Context, itemID model.ItemID, world string) (*model.MarketPriceResult, error) {
	if world == "" {
		return nil, fmt.Errorf("market world is not configured")
	}

	url := fmt.Sprintf("%s/api/v2/%s/%d?listings=%d", c.baseURL, world, itemID, maxListings)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price lookup failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		// Unknown item or world: treat as a lookup with no data.
		return &model.MarketPriceResult{ItemID: itemID}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("price lookup returned %d: %s", resp.StatusCode, string(body))
	}

	var data marketDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode price response: %w", err)
	}

	result := &model.MarketPriceResult{
		ItemID:      itemID,
		MinPriceAll: data.MinPrice,
		Listings:    make([]model.MarketListing, 0, len(data.Listings)),
	}
	for _, l := range data.Listings {
		result.Listings = append(result.Listings, model.MarketListing{
			PricePerUnit: l.PricePerUnit,
			Quantity:     l.Quantity,
			HighQuality:  l.HQ,
		})
	}

	return result, nil
}
