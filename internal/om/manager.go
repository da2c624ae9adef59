// Package om owns the order lifecycle: submission to the trading host, the
// external-id to host-handle mapping, and translation of host order events
// into client order updates.
package om

import (
	"context"
	"sync"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/codec"
	"main/internal/host"
	"main/internal/schema"
	"main/internal/state"
	"main/pkg/exception"
)

// Emitter enqueues one encoded frame for the client.
type Emitter interface {
	Emit(frame []byte) error
}

// record is the live view of one tracked order. Mutated only while holding
// mu; the terminal transition removes the record from both maps.
type record struct {
	mu sync.Mutex

	externalID string
	handle     host.Handle
	instrument string
	wireState  schema.WireState
	filled     int32
	remaining  int32
	avgPrice   float64
}

// Manager tracks orders from submission to a terminal state.
type Manager struct {
	hostRef   host.Host
	emit      Emitter
	positions *state.Tracker

	// submitMu spans create-host-order + insert-mapping, so an event for a
	// freshly created order can never observe a missing mapping.
	submitMu sync.Mutex

	byID     sync.Map // externalID string -> *record
	byHandle sync.Map // host.Handle -> *record
}

// NewManager creates an order lifecycle manager.
func NewManager(h host.Host, emit Emitter, positions *state.Tracker) *Manager {
	return &Manager{
		hostRef:   h,
		emit:      emit,
		positions: positions,
	}
}

// PlaceOrder validates and submits one order command under externalID.
// On any failure it emits a coded error frame, creates no mapping, and
// returns the cause; it never panics across this boundary.
func (m *Manager) PlaceOrder(ctx context.Context, cmd schema.OrderCommand, externalID string) error {
	if externalID == "" {
		m.emitError(schema.CodeMalformedCommand, "order: missing external id")
		return exception.ErrInvalidArgument
	}
	if !m.hostRef.Connected() {
		m.emitError(schema.CodeHostDisconnected, "order: trading host disconnected")
		return exception.ErrOrderHostDisconnected
	}
	if !cmd.Kind.Valid() {
		m.emitError(schema.CodeUnsupportedOrderType, "order: unsupported order type")
		return exception.ErrOrderUnsupportedType
	}
	if cmd.Quantity <= 0 {
		m.emitError(schema.CodeInvalidQuantity, "order: quantity must be positive")
		return exception.ErrOrderInvalidQuantity
	}
	if _, err := m.hostRef.Resolve(cmd.Instrument); err != nil {
		m.emitError(schema.CodeInstrumentUnresolved, "order: unknown instrument "+cmd.Instrument)
		return exception.ErrOrderUnknownInstrument
	}
	if _, ok := m.byID.Load(externalID); ok {
		m.emitError(schema.CodeDuplicateOrderID, "order: duplicate id "+externalID)
		return exception.ErrOrderDuplicateID
	}

	spec := host.OrderSpec{
		Action:      cmd.Action,
		Instrument:  cmd.Instrument,
		Quantity:    cmd.Quantity,
		Kind:        cmd.Kind,
		TimeInForce: cmd.TimeInForce,
		LimitPrice:  cmd.LimitPrice,
		StopPrice:   cmd.StopPrice,
		Signal:      externalID,
	}

	m.submitMu.Lock()
	handle, err := m.hostRef.Submit(ctx, spec)
	if err != nil {
		m.submitMu.Unlock()
		m.emitError(schema.CodeSubmitFailed, "order: submit failed")
		return errors.Wrap(err, "submit order")
	}
	rec := &record{
		externalID: externalID,
		handle:     handle,
		instrument: cmd.Instrument,
		wireState:  schema.StateSubmitted,
		remaining:  cmd.Quantity,
	}
	m.byID.Store(externalID, rec)
	m.byHandle.Store(handle, rec)
	m.submitMu.Unlock()

	logs.Infof("order %s submitted: %s %d %s %s", externalID, cmd.Action, cmd.Quantity, cmd.Instrument, cmd.Kind)
	return nil
}

// CancelOrder requests host cancellation of a live order.
func (m *Manager) CancelOrder(ctx context.Context, externalID string) error {
	entry, ok := m.byID.Load(externalID)
	if !ok {
		m.emitError(schema.CodeOrderNotFound, "cancel: order not found "+externalID)
		return exception.ErrOrderNotFound
	}
	rec := entry.(*record)

	rec.mu.Lock()
	cancelable := rec.wireState == schema.StateSubmitted ||
		rec.wireState == schema.StateAccepted ||
		rec.wireState == schema.StateWorking
	handle := rec.handle
	rec.mu.Unlock()

	if !cancelable {
		m.emitError(schema.CodeOrderNotCancelable, "cancel: order not cancelable "+externalID)
		return exception.ErrOrderNotCancelable
	}
	if err := m.hostRef.Cancel(ctx, handle); err != nil {
		m.emitError(schema.CodeCancelFailed, "cancel: host rejected request")
		return errors.Wrap(err, "cancel order")
	}
	return nil
}

// ModifyOrder requests host modification of a live order.
func (m *Manager) ModifyOrder(ctx context.Context, cmd schema.ModifyCommand) error {
	entry, ok := m.byID.Load(cmd.OrderID)
	if !ok {
		m.emitError(schema.CodeOrderNotFound, "modify: order not found "+cmd.OrderID)
		return exception.ErrOrderNotFound
	}
	rec := entry.(*record)

	rec.mu.Lock()
	modifiable := rec.wireState == schema.StateAccepted ||
		rec.wireState == schema.StateWorking
	handle := rec.handle
	rec.mu.Unlock()

	if !modifiable {
		m.emitError(schema.CodeOrderNotModifiable, "modify: order not modifiable "+cmd.OrderID)
		return exception.ErrOrderNotModifiable
	}
	mod := host.Modification{
		Quantity:   cmd.Quantity,
		LimitPrice: cmd.LimitPrice,
		StopPrice:  cmd.StopPrice,
	}
	if err := m.hostRef.Modify(ctx, handle, mod); err != nil {
		m.emitError(schema.CodeModifyFailed, "modify: host rejected request")
		return errors.Wrap(err, "modify order")
	}
	return nil
}

// OnOrderEvent applies one host order event. Untracked handles are ignored.
// State regressions against the wire-state order are dropped; a terminal
// update removes the mapping right after its frame is enqueued, so no later
// event can reference the external id.
func (m *Manager) OnOrderEvent(ev host.OrderEvent) {
	entry, ok := m.byHandle.Load(ev.Handle)
	if !ok {
		// A submission may still be inside the submit critical section;
		// taking the lock guarantees its mapping insert is visible before
		// the event is declared untracked.
		m.submitMu.Lock()
		entry, ok = m.byHandle.Load(ev.Handle)
		m.submitMu.Unlock()
		if !ok {
			return
		}
	}
	rec := entry.(*record)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	next := WireStateOf(ev.State)
	if next == schema.StateUnknown {
		logs.Errorf("order %s: unmapped host state %v", rec.externalID, ev.State)
		return
	}
	if rec.wireState.Terminal() || next.Rank() < rec.wireState.Rank() {
		return
	}

	rec.wireState = next
	rec.filled = ev.Filled
	rec.remaining = ev.Remaining
	rec.avgPrice = ev.AvgPrice

	ts := ev.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	frame := codec.EncodeOrderUpdate(nil, schema.OrderUpdate{
		OrderID:   rec.externalID,
		State:     rec.wireState,
		Filled:    rec.filled,
		Remaining: rec.remaining,
		AvgPrice:  rec.avgPrice,
		Timestamp: float64(ts.UnixNano()) / 1e9,
	})
	_ = m.emit.Emit(frame)

	if next.Terminal() {
		m.byID.Delete(rec.externalID)
		m.byHandle.Delete(rec.handle)
	}
}

// OnExecution forwards a fill to the position tracker and emits the
// resulting position update. Fills for untracked orders still count.
func (m *Manager) OnExecution(ev host.Execution) schema.PositionUpdate {
	update := m.positions.Apply(ev)
	_ = m.emit.Emit(codec.EncodePositionUpdate(nil, update))
	return update
}

// Tracked reports whether an external id has a live mapping.
func (m *Manager) Tracked(externalID string) bool {
	_, ok := m.byID.Load(externalID)
	return ok
}

// HandleOf returns the host handle for a live external id.
func (m *Manager) HandleOf(externalID string) (host.Handle, bool) {
	entry, ok := m.byID.Load(externalID)
	if !ok {
		return "", false
	}
	return entry.(*record).handle, true
}

func (m *Manager) emitError(code schema.ErrorCode, msg string) {
	frame := codec.EncodeError(nil, schema.ErrorFrame{
		Code:    int32(code),
		Message: msg,
	})
	_ = m.emit.Emit(frame)
}
