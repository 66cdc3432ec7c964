package game

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariveth/lootsweep/internal/common"
	"github.com/mariveth/lootsweep/internal/model"
)

func TestBridgeClient_FetchSlot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/inventory/bag1/4", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(slotResponse{
			Name:              "Mythril Cuirass",
			ItemID:            3058,
			Quantity:          1,
			ItemLevel:         49,
			EquipLevel:        49,
			Rarity:            2,
			UICategory:        35,
			EquipSlotCategory: 4,
			Spiritbond:        42.5,
			HighQuality:       true,
			Tradeable:         true,
		})
	}))
	defer server.Close()

	client := NewBridgeClient(server.URL, time.Second)
	ref := model.SlotRef{Container: model.ContainerBag1, Slot: 4}

	facts, err := client.FetchSlot(context.Background(), ref)
	require.NoError(t, err)
	require.NotNil(t, facts)

	assert.Equal(t, model.ItemID(3058), facts.ID)
	assert.Equal(t, "Mythril Cuirass", facts.Name)
	assert.Equal(t, ref, facts.Location)
	assert.Equal(t, 49, facts.ItemLevel)
	assert.Equal(t, 4, facts.EquipSlotCategory)
	assert.InDelta(t, 42.5, facts.SpiritbondPercent, 0.001)
	assert.True(t, facts.HighQuality)
	assert.True(t, facts.IsGear())
}

func TestBridgeClient_FetchSlotEmpty(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"no content", http.StatusNoContent},
		{"not found", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewBridgeClient(server.URL, time.Second)
			facts, err := client.FetchSlot(context.Background(),
				model.SlotRef{Container: model.ContainerBag2, Slot: 0})

			require.NoError(t, err)
			assert.Nil(t, facts)
		})
	}
}

func TestBridgeClient_FetchSlotServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "plugin not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewBridgeClient(server.URL, time.Second)
	_, err := client.FetchSlot(context.Background(),
		model.SlotRef{Container: model.ContainerBag1, Slot: 0})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bridge returned 500")
}

func TestBridgeClient_BridgeUnreachable(t *testing.T) {
	// Reserve a port, then close it so nothing is listening.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewBridgeClient(url, 500*time.Millisecond)
	_, err := client.FetchSlot(context.Background(),
		model.SlotRef{Container: model.ContainerBag1, Slot: 0})

	assert.ErrorIs(t, err, common.ErrBridgeUnavailable)
}

func TestBridgeClient_Containers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/containers", r.URL.Path)

		_ = json.NewEncoder(w).Encode(containersResponse{
			Containers: []containerInfo{
				{Name: "bag1", Slots: 35},
				{Name: "bag2", Slots: 35},
				{Name: "armory_main", Slots: 50},
			},
		})
	}))
	defer server.Close()

	client := NewBridgeClient(server.URL, time.Second)

	containers, err := client.Containers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Container{
		model.ContainerBag1, model.ContainerBag2, model.Container("armory_main"),
	}, containers)

	slots, err := client.Slots(context.Background(), model.ContainerBag2)
	require.NoError(t, err)
	assert.Equal(t, 35, slots)

	_, err = client.Slots(context.Background(), model.Container("saddlebag"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown container "saddlebag"`)
}

func TestBridgeClient_IsInGearset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gearset/contains/3058", r.URL.Path)
		_ = json.NewEncoder(w).Encode(gearsetResponse{InGearset: true})
	}))
	defer server.Close()

	client := NewBridgeClient(server.URL, time.Second)

	in, err := client.IsInGearset(context.Background(), 3058)
	require.NoError(t, err)
	assert.True(t, in)
}

func TestBridgeClient_PerformDiscard(t *testing.T) {
	var gotBody discardRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/inventory/bag1/7/discard", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewBridgeClient(server.URL, time.Second)
	err := client.PerformDiscard(context.Background(),
		model.SlotRef{Container: model.ContainerBag1, Slot: 7}, 5333)

	require.NoError(t, err)
	assert.Equal(t, uint32(5333), gotBody.ExpectedItemID)
}

func TestBridgeClient_PerformDiscardStatuses(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		status  int
	}{
		{name: "conflict means slot mismatch", status: http.StatusConflict, wantErr: common.ErrSlotMismatch},
		{name: "gone means slot empty", status: http.StatusGone, wantErr: common.ErrSlotEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewBridgeClient(server.URL, time.Second)
			err := client.PerformDiscard(context.Background(),
				model.SlotRef{Container: model.ContainerBag1, Slot: 0}, 5333)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
