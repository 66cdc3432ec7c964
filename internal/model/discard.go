package model

import "time"

// DiscardRecord is one entry in the discard history audit log, written
// after every successful external discard.
type DiscardRecord struct {
	DiscardedAt time.Time
	ItemName    string
	BatchID     string
	Location    SlotRef
	ItemID      ItemID
	Quantity    int
}
