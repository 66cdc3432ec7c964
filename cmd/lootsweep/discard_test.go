package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariveth/lootsweep/internal/model"
	"github.com/mariveth/lootsweep/internal/safety"
)

func junkItem(id model.ItemID, name string, slot int) model.ItemFacts {
	return model.ItemFacts{
		ID:        id,
		Name:      name,
		Quantity:  1,
		Tradeable: true,
		Location:  model.SlotRef{Container: model.ContainerBag1, Slot: slot},
	}
}

func idSet(ids ...model.ItemID) map[model.ItemID]struct{} {
	set := make(map[model.ItemID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestSelectBatch_ExplicitIDs(t *testing.T) {
	items := []model.ItemFacts{
		junkItem(5333, "Copper Ore", 0),
		junkItem(5334, "Tin Ore", 1),
		junkItem(5335, "Iron Ore", 2),
	}
	filters := safety.DefaultFilterConfig()

	batch, refused := selectBatch(items, filters, nil, nil, idSet(5333, 5335), false, nil)

	require.Empty(t, refused)
	require.Len(t, batch, 2)
	assert.Equal(t, model.ItemID(5333), batch[0].ID)
	assert.Equal(t, model.ItemID(5335), batch[1].ID)
}

func TestSelectBatch_AllSlotsOfRequestedID(t *testing.T) {
	// The same item in two slots gives two batch entries.
	items := []model.ItemFacts{
		junkItem(5333, "Copper Ore", 0),
		junkItem(5333, "Copper Ore", 9),
	}
	filters := safety.DefaultFilterConfig()

	batch, refused := selectBatch(items, filters, nil, nil, idSet(5333), false, nil)

	require.Empty(t, refused)
	assert.Len(t, batch, 2)
}

func TestSelectBatch_RefusesUnsafeItems(t *testing.T) {
	currency := junkItem(20, "Sunrise Token", 0)
	indisposable := junkItem(5334, "Bound Relic", 1)
	indisposable.Indisposable = true

	items := []model.ItemFacts{currency, indisposable, junkItem(5335, "Iron Ore", 2)}
	filters := safety.DefaultFilterConfig()

	batch, refused := selectBatch(items, filters, nil, nil, idSet(20, 5334, 5335), false, nil)

	require.Len(t, batch, 1)
	assert.Equal(t, model.ItemID(5335), batch[0].ID)

	require.Len(t, refused, 2)
	assert.Contains(t, refused[0], "Currency Item")
	assert.Contains(t, refused[1], "Cannot Be Discarded")
}

func TestSelectBatch_UserBlacklistWins(t *testing.T) {
	items := []model.ItemFacts{junkItem(5333, "Copper Ore", 0)}
	filters := safety.DefaultFilterConfig()
	blacklist := idSet(5333)

	// Explicit request.
	batch, refused := selectBatch(items, filters, blacklist, nil, idSet(5333), false, nil)
	assert.Empty(t, batch)
	require.Len(t, refused, 1)
	assert.Contains(t, refused[0], "User Blacklisted")

	// Blacklist beats the allowlist in auto mode too; selection
	// filtering is silent, so there is no refusal message.
	batch, refused = selectBatch(items, filters, blacklist, idSet(5333), nil, true, nil)
	assert.Empty(t, batch)
	assert.Empty(t, refused)
}

func TestSelectBatch_AutoMode(t *testing.T) {
	items := []model.ItemFacts{
		junkItem(5333, "Copper Ore", 0),
		junkItem(5334, "Tin Ore", 1),
	}
	filters := safety.DefaultFilterConfig()

	batch, refused := selectBatch(items, filters, nil, idSet(5334), nil, true, nil)

	require.Empty(t, refused)
	require.Len(t, batch, 1)
	assert.Equal(t, model.ItemID(5334), batch[0].ID)
}

func TestSelectBatch_AutoModeRespectsFilterToggles(t *testing.T) {
	hq := junkItem(5334, "Tin Ore", 0)
	hq.HighQuality = true

	filters := safety.DefaultFilterConfig()
	filters.FilterHQ = true

	// Allowlisted but excluded by the HQ toggle: silently skipped.
	batch, refused := selectBatch([]model.ItemFacts{hq}, filters, nil, idSet(5334), nil, true, nil)
	assert.Empty(t, batch)
	assert.Empty(t, refused)

	// With the toggle off it goes through.
	filters.FilterHQ = false
	batch, _ = selectBatch([]model.ItemFacts{hq}, filters, nil, idSet(5334), nil, true, nil)
	assert.Len(t, batch, 1)
}

func TestSelectBatch_GearsetItemRefusedByFilters(t *testing.T) {
	gear := junkItem(3058, "Mythril Cuirass", 0)
	gear.EquipSlotCategory = 4
	gear.ItemLevel = 20

	filters := safety.DefaultFilterConfig()
	inGearset := func(id model.ItemID) bool { return id == 3058 }

	// Warning severity alone does not refuse, only SafeToDiscard does,
	// and gearset membership marks the item unsafe.
	batch, refused := selectBatch([]model.ItemFacts{gear}, filters, nil, nil, idSet(3058), false, inGearset)

	assert.Empty(t, batch)
	require.Len(t, refused, 1)
	assert.Contains(t, refused[0], "In Gearset")
}

func TestParseItemIDs(t *testing.T) {
	ids, err := parseItemIDs([]string{"5333", "5334"})
	require.NoError(t, err)
	assert.Equal(t, []model.ItemID{5333, 5334}, ids)

	_, err = parseItemIDs([]string{"copper"})
	require.Error(t, err)
}
