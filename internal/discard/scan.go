package discard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mariveth/lootsweep/internal/model"
)

// ScanInventory walks every container and returns a snapshot of all
// occupied slots in container order. Individual slot read failures are
// logged and skipped so one bad read doesn't hide the rest of the bag.
func ScanInventory(ctx context.Context, reader InventoryReader) ([]model.ItemFacts, error) {
	containers, err := reader.Containers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	var items []model.ItemFacts
	for _, container := range containers {
		count, err := reader.Slots(ctx, container)
		if err != nil {
			return nil, fmt.Errorf("failed to size container %s: %w", container, err)
		}

		for slot := 0; slot < count; slot++ {
			ref := model.SlotRef{Container: container, Slot: slot}
			facts, err := reader.FetchSlot(ctx, ref)
			if err != nil {
				slog.Warn("Failed to read slot, skipping",
					"slot", ref.String(), "error", err)
				continue
			}
			if facts == nil {
				continue
			}
			items = append(items, *facts)
		}
	}

	return items, nil
}
