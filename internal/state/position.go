// Package state tracks net per-instrument positions from executions.
package state

import (
	"sync"

	"main/internal/host"
	"main/internal/schema"
)

// MarkPriceFunc supplies the latest known price for an instrument, when one
// exists. Used for unrealized PnL only.
type MarkPriceFunc func(instrument string) (float64, bool)

// Position is the net state for one instrument.
type Position struct {
	mu sync.Mutex

	instrument string
	quantity   int32
	avgPrice   float64
}

// Tracker accumulates executions into positions. Safe for concurrent use;
// point lookups and inserts take no global lock.
type Tracker struct {
	positions sync.Map // instrument -> *Position
	mark      MarkPriceFunc
}

// NewTracker creates a tracker. mark may be nil, in which case unrealized
// PnL stays zero.
func NewTracker(mark MarkPriceFunc) *Tracker {
	return &Tracker{mark: mark}
}

// Apply folds one execution into the instrument's position and returns the
// resulting update. Buy quantities add, sell quantities subtract.
//
// The average price is set to the latest fill price, not a volume-weighted
// cost basis. Clients depend on this exact behavior; see the tracker tests
// before changing it.
func (t *Tracker) Apply(exec host.Execution) schema.PositionUpdate {
	entry, _ := t.positions.LoadOrStore(exec.Instrument, &Position{instrument: exec.Instrument})
	pos := entry.(*Position)

	pos.mu.Lock()
	defer pos.mu.Unlock()

	switch exec.Action {
	case schema.ActionBuy:
		pos.quantity += exec.Quantity
	case schema.ActionSell:
		pos.quantity -= exec.Quantity
	}
	if exec.Quantity > 0 {
		pos.avgPrice = exec.Price
	}

	return t.updateLocked(pos)
}

// Snapshot returns the current update for an instrument without mutating it.
func (t *Tracker) Snapshot(instrument string) (schema.PositionUpdate, bool) {
	entry, ok := t.positions.Load(instrument)
	if !ok {
		return schema.PositionUpdate{}, false
	}
	pos := entry.(*Position)
	pos.mu.Lock()
	defer pos.mu.Unlock()
	return t.updateLocked(pos), true
}

// Quantity returns the signed net quantity for an instrument.
func (t *Tracker) Quantity(instrument string) int32 {
	entry, ok := t.positions.Load(instrument)
	if !ok {
		return 0
	}
	pos := entry.(*Position)
	pos.mu.Lock()
	defer pos.mu.Unlock()
	return pos.quantity
}

// Count returns the number of tracked instruments.
func (t *Tracker) Count() int {
	n := 0
	t.positions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (t *Tracker) updateLocked(pos *Position) schema.PositionUpdate {
	update := schema.PositionUpdate{
		Instrument: pos.instrument,
		AvgPrice:   pos.avgPrice,
	}
	switch {
	case pos.quantity > 0:
		update.Position = schema.PositionLong
		update.Quantity = pos.quantity
	case pos.quantity < 0:
		update.Position = schema.PositionShort
		update.Quantity = -pos.quantity
	default:
		update.Position = schema.PositionFlat
	}

	if t.mark != nil && pos.quantity != 0 {
		if mark, ok := t.mark(pos.instrument); ok {
			update.UnrealizedPnl = (mark - pos.avgPrice) * float64(pos.quantity)
		}
	}
	return update
}
