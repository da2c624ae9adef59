// Package sim is an in-process paper trading host. It implements the host
// boundary well enough to exercise the whole bridge without a real trading
// platform: orders are acknowledged through the usual state sequence, market
// orders fill at the simulated price, and subscribed instruments emit a
// random-walk tick stream.
package sim

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"main/internal/host"
	"main/internal/schema"
	"main/pkg/exception"
)

// Config controls the paper host.
type Config struct {
	Account      string
	StartCash    float64
	Instruments  []host.Instrument
	TickInterval time.Duration
	// AutoFill makes market orders fill as soon as they reach Working.
	AutoFill bool
	Seed     int64
}

func (c *Config) applyDefaults() {
	if c.Account == "" {
		c.Account = "Sim101"
	}
	if c.StartCash <= 0 {
		c.StartCash = 100_000
	}
	if c.TickInterval <= 0 {
		c.TickInterval = 250 * time.Millisecond
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
}

type simOrder struct {
	handle   host.Handle
	spec     host.OrderSpec
	filled   int32
	avgPrice float64
	state    host.OrderState
}

// Host is the simulated trading host.
type Host struct {
	cfg Config
	rng *rand.Rand

	events chan host.Event
	seq    atomic.Uint64

	mu          sync.Mutex
	instruments map[string]host.Instrument
	orders      map[host.Handle]*simOrder
	prices      map[string]float64
	tickStop    map[string]chan struct{}
	cash        float64
	realized    float64
	closed      bool
}

var _ host.Host = (*Host)(nil)

// New creates a paper host.
func New(cfg Config) *Host {
	cfg.applyDefaults()
	h := &Host{
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		events:      make(chan host.Event, 256),
		instruments: make(map[string]host.Instrument, len(cfg.Instruments)),
		orders:      make(map[host.Handle]*simOrder),
		prices:      make(map[string]float64),
		tickStop:    make(map[string]chan struct{}),
		cash:        cfg.StartCash,
	}
	for _, inst := range cfg.Instruments {
		h.instruments[inst.Name] = inst
		h.prices[inst.Name] = 100
	}
	return h
}

// Connected reports whether the host accepts requests.
func (h *Host) Connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.closed
}

// Resolve looks up an instrument.
func (h *Host) Resolve(instrument string) (host.Instrument, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	inst, ok := h.instruments[instrument]
	if !ok {
		return host.Instrument{}, exception.ErrOrderUnknownInstrument
	}
	return inst, nil
}

// Submit accepts an order and walks it through the acknowledgment states.
func (h *Host) Submit(_ context.Context, spec host.OrderSpec) (host.Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return "", exception.ErrOrderHostDisconnected
	}
	if _, ok := h.instruments[spec.Instrument]; !ok {
		return "", exception.ErrOrderUnknownInstrument
	}

	handle := host.Handle("sim-" + strconv.FormatUint(h.seq.Add(1), 10))
	order := &simOrder{handle: handle, spec: spec, state: host.OrderSubmitted}
	h.orders[handle] = order

	h.emitOrderLocked(order, host.OrderSubmitted)
	h.emitOrderLocked(order, host.OrderAccepted)
	h.emitOrderLocked(order, host.OrderWorking)

	if h.cfg.AutoFill && spec.Kind == schema.KindMarket {
		h.fillLocked(order, spec.Quantity, h.markLocked(spec))
	}
	return handle, nil
}

// Cancel moves a working order to Cancelled.
func (h *Host) Cancel(_ context.Context, handle host.Handle) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	order, ok := h.orders[handle]
	if !ok {
		return exception.ErrOrderNotFound
	}
	if terminal(order.state) {
		return exception.ErrOrderNotCancelable
	}
	delete(h.orders, handle)
	order.state = host.OrderCancelled
	h.emitOrderLocked(order, host.OrderCancelled)
	return nil
}

// Modify updates the stored order and re-acknowledges it.
func (h *Host) Modify(_ context.Context, handle host.Handle, mod host.Modification) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	order, ok := h.orders[handle]
	if !ok {
		return exception.ErrOrderNotFound
	}
	if terminal(order.state) {
		return exception.ErrOrderNotModifiable
	}
	if mod.Quantity > 0 {
		order.spec.Quantity = mod.Quantity
	}
	if mod.LimitPrice > 0 {
		order.spec.LimitPrice = mod.LimitPrice
	}
	if mod.StopPrice > 0 {
		order.spec.StopPrice = mod.StopPrice
	}
	h.emitOrderLocked(order, host.OrderWorking)
	return nil
}

// Fill executes quantity at price against a working order. Drives partial
// and full fills for tests and manual paper trading.
func (h *Host) Fill(handle host.Handle, quantity int32, price float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	order, ok := h.orders[handle]
	if !ok {
		return exception.ErrOrderNotFound
	}
	if terminal(order.state) || quantity <= 0 {
		return exception.ErrInvalidArgument
	}
	h.fillLocked(order, quantity, price)
	return nil
}

// SubscribeTicks starts a random-walk tick stream for the instrument.
func (h *Host) SubscribeTicks(instrument string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return exception.ErrOrderHostDisconnected
	}
	if _, ok := h.instruments[instrument]; !ok {
		return exception.ErrOrderUnknownInstrument
	}
	if _, ok := h.tickStop[instrument]; ok {
		return nil
	}
	stop := make(chan struct{})
	h.tickStop[instrument] = stop
	go h.tickLoop(instrument, stop)
	return nil
}

// UnsubscribeTicks stops the instrument's tick stream.
func (h *Host) UnsubscribeTicks(instrument string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if stop, ok := h.tickStop[instrument]; ok {
		close(stop)
		delete(h.tickStop, instrument)
	}
	return nil
}

// RequestAccount emits a fresh account snapshot.
func (h *Host) RequestAccount(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return exception.ErrOrderHostDisconnected
	}
	h.emitAccountLocked("BALANCE")
	return nil
}

// Events is the host-to-bridge event stream.
func (h *Host) Events() <-chan host.Event {
	return h.events
}

// Close stops tick streams and closes the event stream.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for instrument, stop := range h.tickStop {
		close(stop)
		delete(h.tickStop, instrument)
	}
	close(h.events)
}

func (h *Host) tickLoop(instrument string, stop chan struct{}) {
	ticker := time.NewTicker(h.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			h.mu.Lock()
			if h.closed {
				h.mu.Unlock()
				return
			}
			inst := h.instruments[instrument]
			price := h.prices[instrument]
			step := inst.TickSize
			if step <= 0 {
				step = 0.01
			}
			price += float64(h.rng.Intn(3)-1) * step
			h.prices[instrument] = price
			ev := host.TickEvent{
				Instrument: instrument,
				Price:      price,
				Volume:     int64(h.rng.Intn(10) + 1),
				Bid:        price - step,
				Ask:        price + step,
				Time:       now,
			}
			h.sendLocked(ev)
			h.mu.Unlock()
		}
	}
}

func (h *Host) markLocked(spec host.OrderSpec) float64 {
	if price, ok := h.prices[spec.Instrument]; ok && price > 0 {
		return price
	}
	if spec.LimitPrice > 0 {
		return spec.LimitPrice
	}
	return spec.StopPrice
}

func (h *Host) fillLocked(order *simOrder, quantity int32, price float64) {
	remaining := order.spec.Quantity - order.filled
	if quantity > remaining {
		quantity = remaining
	}
	order.avgPrice = price
	order.filled += quantity

	h.sendLocked(host.Execution{
		Handle:     order.handle,
		Instrument: order.spec.Instrument,
		Action:     order.spec.Action,
		Quantity:   quantity,
		Price:      price,
		Time:       time.Now(),
	})

	if order.filled >= order.spec.Quantity {
		order.state = host.OrderFilled
		delete(h.orders, order.handle)
		h.emitOrderLocked(order, host.OrderFilled)
		h.emitAccountLocked("FILL")
	} else {
		order.state = host.OrderPartFilled
		h.emitOrderLocked(order, host.OrderPartFilled)
	}
}

func (h *Host) emitOrderLocked(order *simOrder, state host.OrderState) {
	h.sendLocked(host.OrderEvent{
		Handle:    order.handle,
		State:     state,
		Filled:    order.filled,
		Remaining: order.spec.Quantity - order.filled,
		AvgPrice:  order.avgPrice,
		Time:      time.Now(),
	})
}

func (h *Host) emitAccountLocked(updateType string) {
	h.sendLocked(host.AccountEvent{
		Account:        h.cfg.Account,
		Cash:           h.cash,
		BuyingPower:    h.cash * 4,
		RealizedPnl:    h.realized,
		UnrealizedPnl:  0,
		NetLiquidation: h.cash + h.realized,
		UpdateType:     updateType,
		Time:           time.Now(),
	})
}

func (h *Host) sendLocked(ev host.Event) {
	if h.closed {
		return
	}
	select {
	case h.events <- ev:
	default:
		// Event buffer full: drop. The bridge consumes fast; this only
		// happens when nothing is draining, e.g. during shutdown.
	}
}

func terminal(state host.OrderState) bool {
	switch state {
	case host.OrderFilled, host.OrderCancelled, host.OrderRejected:
		return true
	default:
		return false
	}
}
