package discard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariveth/lootsweep/internal/common"
	"github.com/mariveth/lootsweep/internal/model"
)

// fakeGame is an in-memory inventory that implements InventoryReader
// and Discarder. PerformDiscard mimics the real bridge: it verifies
// the expected id and empties the slot.
type fakeGame struct {
	slots      map[model.SlotRef]model.ItemFacts
	failSlots  map[model.SlotRef]error
	discarded  []model.SlotRef
	containers []model.Container
	slotCount  int
}

func newFakeGame(items ...model.ItemFacts) *fakeGame {
	g := &fakeGame{
		slots:      make(map[model.SlotRef]model.ItemFacts),
		failSlots:  make(map[model.SlotRef]error),
		containers: []model.Container{model.ContainerBag1},
		slotCount:  35,
	}
	for _, item := range items {
		g.slots[item.Location] = item
	}
	return g
}

func (g *fakeGame) FetchSlot(_ context.Context, ref model.SlotRef) (*model.ItemFacts, error) {
	item, ok := g.slots[ref]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (g *fakeGame) Containers(_ context.Context) ([]model.Container, error) {
	return g.containers, nil
}

func (g *fakeGame) Slots(_ context.Context, _ model.Container) (int, error) {
	return g.slotCount, nil
}

func (g *fakeGame) PerformDiscard(_ context.Context, ref model.SlotRef, expected model.ItemID) error {
	if err, ok := g.failSlots[ref]; ok {
		return err
	}
	item, ok := g.slots[ref]
	if !ok {
		return common.ErrSlotEmpty
	}
	if item.ID != expected {
		return common.ErrSlotMismatch
	}
	delete(g.slots, ref)
	g.discarded = append(g.discarded, ref)
	return nil
}

func slotAt(slot int) model.SlotRef {
	return model.SlotRef{Container: model.ContainerBag1, Slot: slot}
}

func testItem(id model.ItemID, name string, slot int) model.ItemFacts {
	return model.ItemFacts{
		ID:       id,
		Name:     name,
		Quantity: 1,
		Location: slotAt(slot),
	}
}

// runToTerminal ticks until the orchestrator leaves Discarding, with a
// bound so a broken state machine can't hang the test.
func runToTerminal(t *testing.T, orch *Orchestrator) State {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		if orch.State() != StateDiscarding {
			return orch.State()
		}
		orch.Tick(ctx)
	}
	t.Fatal("orchestrator did not reach a terminal state")
	return orch.State()
}

func TestOrchestrator_HappyPath(t *testing.T) {
	items := []model.ItemFacts{
		testItem(5333, "Copper Ore", 0),
		testItem(5334, "Tin Ore", 1),
		testItem(5335, "Iron Ore", 2),
	}
	game := newFakeGame(items...)
	orch := New(game, game, nil)

	require.Equal(t, StateIdle, orch.State())
	require.NoError(t, orch.Begin(items))
	require.Equal(t, StateConfirming, orch.State())
	require.NoError(t, orch.StartDiscarding())

	state := runToTerminal(t, orch)

	assert.Equal(t, StateCompleted, state)
	assert.Equal(t, 3, orch.Processed())
	assert.Equal(t, []model.SlotRef{slotAt(0), slotAt(1), slotAt(2)}, game.discarded)
	assert.Empty(t, game.slots)

	orch.Acknowledge()
	assert.Equal(t, StateIdle, orch.State())
	assert.Equal(t, 0, orch.Total())
}

// Three items, the second slot fails mid-batch, so
// progress stops at 1, the batch errors, item one is gone and the
// remaining two stay put.
func TestOrchestrator_SecondItemMismatchHaltsBatch(t *testing.T) {
	items := []model.ItemFacts{
		testItem(5333, "Copper Ore", 0),
		testItem(5334, "Tin Ore", 1),
		testItem(5335, "Iron Ore", 2),
	}
	game := newFakeGame(items...)
	// Another process moved the item: the slot now holds a different id.
	moved := testItem(9999, "Interloper", 1)
	game.slots[slotAt(1)] = moved

	orch := New(game, game, nil)
	require.NoError(t, orch.Begin(items))
	require.NoError(t, orch.StartDiscarding())

	state := runToTerminal(t, orch)

	assert.Equal(t, StateError, state)
	assert.Equal(t, 1, orch.Processed())
	assert.Contains(t, orch.ErrMessage(), "now holds item 9999")

	_, slot1Present := game.slots[slotAt(1)]
	_, slot2Present := game.slots[slotAt(2)]
	_, slot0Present := game.slots[slotAt(0)]
	assert.False(t, slot0Present, "first item should be discarded")
	assert.True(t, slot1Present, "second item should remain")
	assert.True(t, slot2Present, "third item should remain")

	// No further increments after the error.
	orch.Tick(context.Background())
	assert.Equal(t, 1, orch.Processed())
}

func TestOrchestrator_EmptiedSlotHaltsBatch(t *testing.T) {
	items := []model.ItemFacts{
		testItem(5333, "Copper Ore", 0),
		testItem(5334, "Tin Ore", 1),
	}
	game := newFakeGame(items...)
	delete(game.slots, slotAt(1))

	orch := New(game, game, nil)
	require.NoError(t, orch.Begin(items))
	require.NoError(t, orch.StartDiscarding())

	state := runToTerminal(t, orch)

	assert.Equal(t, StateError, state)
	assert.Equal(t, 1, orch.Processed())
	assert.Contains(t, orch.ErrMessage(), "is empty")
}

func TestOrchestrator_DiscardFailureHaltsBatch(t *testing.T) {
	items := []model.ItemFacts{testItem(5333, "Copper Ore", 0)}
	game := newFakeGame(items...)
	game.failSlots[slotAt(0)] = errors.New("bridge refused")

	orch := New(game, game, nil)
	require.NoError(t, orch.Begin(items))
	require.NoError(t, orch.StartDiscarding())

	state := runToTerminal(t, orch)

	assert.Equal(t, StateError, state)
	assert.Equal(t, 0, orch.Processed())
	assert.Contains(t, orch.ErrMessage(), "bridge refused")
}

func TestOrchestrator_CancelBetweenItems(t *testing.T) {
	items := []model.ItemFacts{
		testItem(5333, "Copper Ore", 0),
		testItem(5334, "Tin Ore", 1),
		testItem(5335, "Iron Ore", 2),
	}
	game := newFakeGame(items...)
	orch := New(game, game, nil)

	require.NoError(t, orch.Begin(items))
	require.NoError(t, orch.StartDiscarding())

	ctx := context.Background()
	orch.Tick(ctx)
	require.Equal(t, 1, orch.Processed())

	orch.CancelDiscard()
	orch.Tick(ctx)

	assert.Equal(t, StateCancelled, orch.State())
	assert.Equal(t, 1, orch.Processed())

	// The first discard is not rolled back.
	_, slot0Present := game.slots[slotAt(0)]
	assert.False(t, slot0Present)
	_, slot1Present := game.slots[slotAt(1)]
	assert.True(t, slot1Present)

	// Ticking a cancelled batch does nothing.
	orch.Tick(ctx)
	assert.Equal(t, 1, orch.Processed())
}

func TestOrchestrator_CancelWhileConfirming(t *testing.T) {
	items := []model.ItemFacts{testItem(5333, "Copper Ore", 0)}
	game := newFakeGame(items...)
	orch := New(game, game, nil)

	require.NoError(t, orch.Begin(items))
	orch.CancelDiscard()

	assert.Equal(t, StateCancelled, orch.State())
	assert.Equal(t, 0, orch.Processed())
}

func TestOrchestrator_StateTransitionRules(t *testing.T) {
	items := []model.ItemFacts{testItem(5333, "Copper Ore", 0)}
	game := newFakeGame(items...)
	orch := New(game, game, nil)

	// Cannot start from Idle.
	err := orch.StartDiscarding()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrWrongState)

	// Cannot stage an empty batch.
	assert.ErrorIs(t, orch.Begin(nil), common.ErrEmptyBatch)

	require.NoError(t, orch.Begin(items))

	// Cannot stage on top of a staged batch.
	assert.ErrorIs(t, orch.Begin(items), common.ErrWrongState)

	require.NoError(t, orch.StartDiscarding())

	// StartDiscarding is not re-entrant.
	assert.ErrorIs(t, orch.StartDiscarding(), common.ErrBatchActive)
}

func TestOrchestrator_ProgressIsMonotonic(t *testing.T) {
	items := []model.ItemFacts{
		testItem(5333, "Copper Ore", 0),
		testItem(5334, "Tin Ore", 1),
	}
	game := newFakeGame(items...)
	orch := New(game, game, nil)

	require.NoError(t, orch.Begin(items))
	require.NoError(t, orch.StartDiscarding())

	ctx := context.Background()
	last := 0
	for i := 0; i < 10; i++ {
		orch.Tick(ctx)
		processed := orch.Processed()
		assert.GreaterOrEqual(t, processed, last)
		assert.LessOrEqual(t, processed, len(items))
		last = processed
	}

	assert.Equal(t, StateCompleted, orch.State())
	assert.Equal(t, len(items), orch.Processed())
}

func TestOrchestrator_PublishesEvents(t *testing.T) {
	items := []model.ItemFacts{
		testItem(5333, "Copper Ore", 0),
		testItem(5334, "Tin Ore", 1),
	}
	game := newFakeGame(items...)
	orch := New(game, game, nil)

	events := orch.Subscribe()

	require.NoError(t, orch.Begin(items))
	require.NoError(t, orch.StartDiscarding())
	runToTerminal(t, orch)
	orch.Acknowledge()

	var seen []Event
	for len(events) > 0 {
		seen = append(seen, <-events)
	}

	// Confirming, Discarding, two progress increments, Completed, Idle.
	require.Len(t, seen, 6)
	assert.Equal(t, StateConfirming, seen[0].State)
	assert.Equal(t, StateDiscarding, seen[1].State)
	assert.Equal(t, 1, seen[2].Processed)
	assert.Equal(t, 2, seen[3].Processed)
	assert.Equal(t, StateCompleted, seen[4].State)
	assert.Equal(t, StateIdle, seen[5].State)
}

func TestOrchestrator_TickOutsideDiscardingIsNoOp(t *testing.T) {
	game := newFakeGame()
	orch := New(game, game, nil)

	orch.Tick(context.Background())
	assert.Equal(t, StateIdle, orch.State())
	assert.Equal(t, 0, orch.Processed())
}
