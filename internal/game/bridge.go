// Package game talks to the in-game companion plugin over its local
// HTTP bridge. The bridge owns all game-memory access; this client
// only moves data shapes across it.
package game

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mariveth/lootsweep/internal/common"
	"github.com/mariveth/lootsweep/internal/model"
)

// BridgeClient implements the InventoryReader, GearsetLookup and
// Discarder interfaces against the companion plugin's localhost API.
type BridgeClient struct {
	baseURL    string
	httpClient *http.Client
}

// Bridge API payload types.
type slotResponse struct {
	Name              string  `json:"name"`
	ItemID            uint32  `json:"itemId"`
	Quantity          int     `json:"quantity"`
	ItemLevel         int     `json:"itemLevel"`
	EquipLevel        int     `json:"equipLevel"`
	Rarity            int     `json:"rarity"`
	UICategory        int     `json:"uiCategory"`
	EquipSlotCategory int     `json:"equipSlotCategory"`
	Spiritbond        float64 `json:"spiritbond"`
	HighQuality       bool    `json:"hq"`
	Tradeable         bool    `json:"tradeable"`
	Indisposable      bool    `json:"indisposable"`
	Collectable       bool    `json:"collectable"`
	Unique            bool    `json:"unique"`
}

type containersResponse struct {
	Containers []containerInfo `json:"containers"`
}

type containerInfo struct {
	Name  string `json:"name"`
	Slots int    `json:"slots"`
}

type gearsetResponse struct {
	InGearset bool `json:"inGearset"`
}

type discardRequest struct {
	ExpectedItemID uint32 `json:"expectedItemId"`
}

// NewBridgeClient creates a client for the bridge at baseURL.
func NewBridgeClient(baseURL string, timeout time.Duration) *BridgeClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BridgeClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchSlot reads one slot's current facts. Empty slots return nil.
func (c *BridgeClient) FetchSlot(ctx context.Context, ref model.SlotRef) (*model.ItemFacts, error) {
	url := fmt.Sprintf("%s/inventory/%s/%d", c.baseURL, ref.Container, ref.Slot)

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var slot slotResponse
	if err := json.NewDecoder(resp.Body).Decode(&slot); err != nil {
		return nil, fmt.Errorf("failed to decode slot response: %w", err)
	}

	return &model.ItemFacts{
		ID:                model.ItemID(slot.ItemID),
		Name:              slot.Name,
		Quantity:          slot.Quantity,
		Location:          ref,
		ItemLevel:         slot.ItemLevel,
		EquipLevel:        slot.EquipLevel,
		Rarity:            slot.Rarity,
		UICategory:        slot.UICategory,
		EquipSlotCategory: slot.EquipSlotCategory,
		SpiritbondPercent: slot.Spiritbond,
		HighQuality:       slot.HighQuality,
		Tradeable:         slot.Tradeable,
		Indisposable:      slot.Indisposable,
		Collectable:       slot.Collectable,
		Unique:            slot.Unique,
	}, nil
}

// Containers lists the containers the bridge exposes.
func (c *BridgeClient) Containers(ctx context.Context) ([]model.Container, error) {
	resp, err := c.get(ctx, c.baseURL+"/inventory/containers")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var data containersResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode containers response: %w", err)
	}

	containers := make([]model.Container, 0, len(data.Containers))
	for _, ci := range data.Containers {
		containers = append(containers, model.Container(ci.Name))
	}
	return containers, nil
}

// Slots returns the slot count of one container.
func (c *BridgeClient) Slots(ctx context.Context, container model.Container) (int, error) {
	resp, err := c.get(ctx, c.baseURL+"/inventory/containers")
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, c.statusError(resp)
	}

	var data containersResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("failed to decode containers response: %w", err)
	}

	for _, ci := range data.Containers {
		if model.Container(ci.Name) == container {
			return ci.Slots, nil
		}
	}
	return 0, fmt.Errorf("unknown container %q", container)
}

// IsInGearset queries gearset membership for one item id.
func (c *BridgeClient) IsInGearset(ctx context.Context, itemID model.ItemID) (bool, error) {
	url := fmt.Sprintf("%s/gearset/contains/%d", c.baseURL, itemID)

	resp, err := c.get(ctx, url)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, c.statusError(resp)
	}

	var data gearsetResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return false, fmt.Errorf("failed to decode gearset response: %w", err)
	}
	return data.InGearset, nil
}

// PerformDiscard deletes the item in one slot. The bridge verifies the
// expected item id before acting and answers 409 on a mismatch; the
// deletion is irreversible once it reports success.
func (c *BridgeClient) PerformDiscard(ctx context.Context, ref model.SlotRef, expected model.ItemID) error {
	url := fmt.Sprintf("%s/inventory/%s/%d/discard", c.baseURL, ref.Container, ref.Slot)

	body, err := json.Marshal(discardRequest{ExpectedItemID: uint32(expected)})
	if err != nil {
		return fmt.Errorf("failed to encode discard request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create discard request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrBridgeUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusConflict:
		return fmt.Errorf("%w: bridge rejected discard at %s", common.ErrSlotMismatch, ref)
	case http.StatusGone:
		return fmt.Errorf("%w: %s", common.ErrSlotEmpty, ref)
	default:
		return c.statusError(resp)
	}
}

func (c *BridgeClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBridgeUnavailable, err)
	}
	return resp, nil
}

func (c *BridgeClient) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("bridge returned %d: %s", resp.StatusCode, string(body))
}
