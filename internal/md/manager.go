// Package md handles market data subscriptions for the connected client.
package md

import (
	"sync"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/codec"
	"main/internal/host"
	"main/internal/schema"
)

// Emitter enqueues one encoded frame for the client.
type Emitter interface {
	Emit(frame []byte) error
}

// Manager tracks which instruments the client wants ticks for and forwards
// matching host ticks. Subscriptions are per-connection state and are
// cleared on disconnect; the last-price cache is not.
type Manager struct {
	host host.Host
	emit Emitter

	mu   sync.RWMutex
	subs map[string]struct{}

	last sync.Map // instrument -> float64
}

// NewManager creates a subscription manager.
func NewManager(h host.Host, emit Emitter) *Manager {
	return &Manager{
		host: h,
		emit: emit,
		subs: make(map[string]struct{}),
	}
}

// Subscribe starts tick forwarding for an instrument.
func (m *Manager) Subscribe(instrument string) error {
	if instrument == "" {
		return errors.New("md: empty instrument")
	}
	if err := m.host.SubscribeTicks(instrument); err != nil {
		return errors.Wrap(err, "subscribe ticks")
	}

	m.mu.Lock()
	m.subs[instrument] = struct{}{}
	m.mu.Unlock()

	logs.Infof("subscribed market data: %s", instrument)
	return nil
}

// Unsubscribe stops tick forwarding for an instrument.
func (m *Manager) Unsubscribe(instrument string) error {
	m.mu.Lock()
	delete(m.subs, instrument)
	m.mu.Unlock()

	if err := m.host.UnsubscribeTicks(instrument); err != nil {
		return errors.Wrap(err, "unsubscribe ticks")
	}
	return nil
}

// Subscribed reports whether the client wants ticks for the instrument.
func (m *Manager) Subscribed(instrument string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.subs[instrument]
	return ok
}

// ClearSubscriptions drops all subscriptions. Called on client disconnect.
func (m *Manager) ClearSubscriptions() {
	m.mu.Lock()
	subs := m.subs
	m.subs = make(map[string]struct{})
	m.mu.Unlock()

	for instrument := range subs {
		if err := m.host.UnsubscribeTicks(instrument); err != nil {
			logs.Errorf("unsubscribe %s on disconnect, err: %+v", instrument, err)
		}
	}
}

// OnTick caches the last price and forwards the tick when subscribed.
func (m *Manager) OnTick(ev host.TickEvent) {
	m.last.Store(ev.Instrument, ev.Price)

	if !m.Subscribed(ev.Instrument) {
		return
	}

	frame := codec.EncodeTick(nil, schema.Tick{
		Timestamp:  float64(ev.Time.UnixNano()) / 1e9,
		Price:      ev.Price,
		Volume:     ev.Volume,
		Bid:        ev.Bid,
		Ask:        ev.Ask,
		Instrument: ev.Instrument,
	})
	// Tick delivery is best effort; the queue counts drops.
	_ = m.emit.Emit(frame)
}

// LastPrice returns the most recent tick price seen for an instrument.
func (m *Manager) LastPrice(instrument string) (float64, bool) {
	v, ok := m.last.Load(instrument)
	if !ok {
		return 0, false
	}
	return v.(float64), true
}

// InstrumentInfo resolves an instrument and sends its contract terms.
func (m *Manager) InstrumentInfo(instrument string) error {
	info, err := m.host.Resolve(instrument)
	if err != nil {
		return errors.Wrap(err, "resolve instrument")
	}

	frame := codec.EncodeInstrumentInfo(nil, schema.InstrumentInfo{
		Instrument: info.Name,
		TickSize:   info.TickSize,
		PointValue: info.PointValue,
		MinMove:    info.MinMove,
		Exchange:   info.Exchange,
	})
	return m.emit.Emit(frame)
}
