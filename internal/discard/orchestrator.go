package discard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mariveth/lootsweep/internal/common"
	"github.com/mariveth/lootsweep/internal/model"
	"github.com/mariveth/lootsweep/internal/service"
)

// State is one phase of the batch discard lifecycle.
type State string

// Lifecycle states. Terminal states (Completed, Cancelled, Error)
// return to Idle once acknowledged.
const (
	StateIdle       State = "idle"
	StateConfirming State = "confirming"
	StateDiscarding State = "discarding"
	StateCompleted  State = "completed"
	StateCancelled  State = "cancelled"
	StateError      State = "error"
)

// Event is published to observers after every state transition and
// after every progress increment.
type Event struct {
	State     State
	Message   string
	Item      *model.ItemFacts
	Processed int
	Total     int
}

// eventBuffer bounds each subscriber channel. Slow observers lose
// events rather than stall the update loop.
const eventBuffer = 16

// Orchestrator executes a batch of discards one item per tick. It is
// driven by the host's update loop calling Tick; there is no internal
// worker goroutine, which keeps the at-most-one-discard-in-flight
// invariant without extra synchronization. The mutex only protects
// against observers reading state from other goroutines.
type Orchestrator struct {
	inventory InventoryReader
	discarder Discarder
	storage   service.Storage

	mu        sync.Mutex
	items     []model.ItemFacts
	subs      []chan Event
	state     State
	batchID   string
	errMsg    string
	processed int
	cancelled bool
}

// New creates an orchestrator in the Idle state. storage may be nil;
// when set, every successful discard is appended to the history log.
func New(inventory InventoryReader, discarder Discarder, storage service.Storage) *Orchestrator {
	return &Orchestrator{
		inventory: inventory,
		discarder: discarder,
		storage:   storage,
		state:     StateIdle,
	}
}

// Subscribe registers an observer channel. Events are dropped rather
// than blocking when a subscriber falls behind.
func (o *Orchestrator) Subscribe() <-chan Event {
	o.mu.Lock()
	defer o.mu.Unlock()

	ch := make(chan Event, eventBuffer)
	o.subs = append(o.subs, ch)
	return ch
}

// Begin stages a batch for confirmation: Idle -> Confirming. The item
// order given here is the exact order items will be discarded in.
func (o *Orchestrator) Begin(items []model.ItemFacts) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateIdle {
		return fmt.Errorf("%w: cannot begin batch in state %s", common.ErrWrongState, o.state)
	}
	if len(items) == 0 {
		return common.ErrEmptyBatch
	}

	o.items = items
	o.processed = 0
	o.errMsg = ""
	o.cancelled = false
	o.batchID = fmt.Sprintf("batch-%d", time.Now().UnixNano())
	o.setState(StateConfirming, "")

	return nil
}

// StartDiscarding confirms the staged batch: Confirming -> Discarding.
// Calling it while a batch is already discarding is rejected.
func (o *Orchestrator) StartDiscarding() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateDiscarding {
		return common.ErrBatchActive
	}
	if o.state != StateConfirming {
		return fmt.Errorf("%w: cannot start discarding in state %s", common.ErrWrongState, o.state)
	}
	if len(o.items) == 0 {
		return common.ErrEmptyBatch
	}

	o.setState(StateDiscarding, "")
	return nil
}

// CancelDiscard requests cooperative cancellation. It is legal at any
// point before completion and takes effect before the next item is
// attempted; the item currently mid-discard is never interrupted.
// Already-discarded items stay discarded.
func (o *Orchestrator) CancelDiscard() {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateConfirming:
		o.cancelled = true
		o.setState(StateCancelled, "")
	case StateDiscarding:
		o.cancelled = true
	default:
	}
}

// Acknowledge clears a terminal state back to Idle.
func (o *Orchestrator) Acknowledge() {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateCompleted, StateCancelled, StateError:
		o.items = nil
		o.processed = 0
		o.errMsg = ""
		o.cancelled = false
		o.batchID = ""
		o.setState(StateIdle, "")
	default:
	}
}

// Tick advances the batch by at most one item. The host update loop
// calls it once per frame while the state is Discarding; in any other
// state it is a no-op. Each call re-resolves the item's slot against
// the live inventory before discarding; a mismatch halts the whole
// batch.
func (o *Orchestrator) Tick(ctx context.Context) {
	o.mu.Lock()
	if o.state != StateDiscarding {
		o.mu.Unlock()
		return
	}
	if o.cancelled {
		o.setState(StateCancelled, "")
		o.mu.Unlock()
		return
	}
	if o.processed >= len(o.items) {
		o.setState(StateCompleted, "")
		o.mu.Unlock()
		return
	}
	item := o.items[o.processed]
	o.mu.Unlock()

	if err := o.discardOne(ctx, item); err != nil {
		o.mu.Lock()
		o.setState(StateError, err.Error())
		o.mu.Unlock()

		slog.Error("Discard batch halted",
			"item_id", item.ID,
			"item_name", item.Name,
			"slot", item.Location.String(),
			"processed", o.Processed(),
			"error", err)
		return
	}

	o.mu.Lock()
	o.processed++
	processed, total := o.processed, len(o.items)
	if processed >= total {
		// Publish the final increment before the terminal transition
		// so observers see 100% progress.
		o.publish(Event{State: o.state, Processed: processed, Total: total, Item: &item})
		o.setState(StateCompleted, "")
	} else {
		o.publish(Event{State: o.state, Processed: processed, Total: total, Item: &item})
	}
	o.mu.Unlock()

	o.recordHistory(ctx, item)
}

// discardOne re-resolves one slot and performs the external deletion.
func (o *Orchestrator) discardOne(ctx context.Context, item model.ItemFacts) error {
	current, err := o.inventory.FetchSlot(ctx, item.Location)
	if err != nil {
		return fmt.Errorf("failed to re-read slot %s: %w", item.Location, err)
	}
	if current == nil {
		return fmt.Errorf("%w: %s is empty, expected %s (id %d)",
			common.ErrSlotMismatch, item.Location, item.Name, item.ID)
	}
	if current.ID != item.ID {
		return fmt.Errorf("%w: %s now holds item %d, expected %s (id %d)",
			common.ErrSlotMismatch, item.Location, current.ID, item.Name, item.ID)
	}

	if err := o.discarder.PerformDiscard(ctx, item.Location, item.ID); err != nil {
		return fmt.Errorf("failed to discard %s (id %d) from %s: %w",
			item.Name, item.ID, item.Location, err)
	}

	slog.Info("Discarded item",
		"item_id", item.ID,
		"item_name", item.Name,
		"quantity", item.Quantity,
		"slot", item.Location.String())

	return nil
}

// recordHistory appends a successful discard to the audit log. History
// is best effort: the item is already gone, so a logging failure must
// not halt the batch.
func (o *Orchestrator) recordHistory(ctx context.Context, item model.ItemFacts) {
	if o.storage == nil {
		return
	}

	record := &model.DiscardRecord{
		ItemID:      item.ID,
		ItemName:    item.Name,
		Quantity:    item.Quantity,
		Location:    item.Location,
		BatchID:     o.BatchID(),
		DiscardedAt: time.Now(),
	}

	err := common.WithRetry(ctx, func() error {
		if saveErr := o.storage.SaveDiscardRecord(ctx, record); saveErr != nil {
			return &common.RetryableError{Err: saveErr, Retryable: true}
		}
		return nil
	}, service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	})
	if err != nil {
		slog.Warn("Failed to record discard history",
			"item_id", item.ID, "error", err)
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Processed returns how many items have been successfully discarded.
func (o *Orchestrator) Processed() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.processed
}

// Total returns the batch size, 0 when idle.
func (o *Orchestrator) Total() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.items)
}

// ErrMessage returns the human-readable halt reason in the Error state.
func (o *Orchestrator) ErrMessage() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errMsg
}

// BatchID identifies the current batch in the history log.
func (o *Orchestrator) BatchID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.batchID
}

// Items returns a copy of the staged batch.
func (o *Orchestrator) Items() []model.ItemFacts {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]model.ItemFacts, len(o.items))
	copy(out, o.items)
	return out
}

// setState transitions and publishes. Callers must hold the mutex.
func (o *Orchestrator) setState(state State, message string) {
	o.state = state
	o.errMsg = message
	o.publish(Event{
		State:     state,
		Message:   message,
		Processed: o.processed,
		Total:     len(o.items),
	})
}

// publish sends to every subscriber without blocking. Callers must
// hold the mutex.
func (o *Orchestrator) publish(ev Event) {
	for _, ch := range o.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
