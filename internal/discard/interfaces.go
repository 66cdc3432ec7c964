// Package discard implements the batch discard state machine and the
// collaborator interfaces it drives.
package discard

import (
	"context"

	"github.com/mariveth/lootsweep/internal/model"
)

// InventoryReader reads current inventory slot contents from the game.
type InventoryReader interface {
	// FetchSlot returns the facts for one slot, or nil when the slot
	// is empty or invalid.
	FetchSlot(ctx context.Context, ref model.SlotRef) (*model.ItemFacts, error)

	// Containers lists the containers available for scanning.
	Containers(ctx context.Context) ([]model.Container, error)

	// Slots returns the number of slots in a container.
	Slots(ctx context.Context, container model.Container) (int, error)
}

// GearsetLookup queries whether an item id is equipped in any saved
// gear preset.
type GearsetLookup interface {
	IsInGearset(ctx context.Context, itemID model.ItemID) (bool, error)
}

// Discarder performs the irreversible external deletion. It must fail
// when the slot no longer holds the expected item id.
type Discarder interface {
	PerformDiscard(ctx context.Context, ref model.SlotRef, expected model.ItemID) error
}
