// Package account caches the host's account snapshots and answers client
// account requests.
package account

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/yanun0323/decimal"
	"github.com/yanun0323/errors"

	"main/internal/codec"
	"main/internal/host"
	"main/internal/schema"
)

// Emitter enqueues one encoded frame for the client.
type Emitter interface {
	Emit(frame []byte) error
}

// HealthLimits are the thresholds for Healthy. Values are decimal strings in
// the config file; zero-valued limits disable the respective check.
type HealthLimits struct {
	MinBalance   decimal.Decimal `json:"minBalance"`
	MaxDailyLoss decimal.Decimal `json:"maxDailyLoss"`
}

// Monitor holds the latest account snapshot.
type Monitor struct {
	hostRef host.Host
	emit    Emitter

	mu   sync.Mutex
	last schema.AccountUpdate
	seen bool
}

// NewMonitor creates an account monitor.
func NewMonitor(h host.Host, emit Emitter) *Monitor {
	return &Monitor{hostRef: h, emit: emit}
}

// OnEvent caches the snapshot and forwards it to the client.
func (m *Monitor) OnEvent(ev host.AccountEvent) {
	update := schema.AccountUpdate{
		Account:        ev.Account,
		Timestamp:      float64(ev.Time.UnixNano()) / 1e9,
		Cash:           ev.Cash,
		BuyingPower:    ev.BuyingPower,
		RealizedPnl:    ev.RealizedPnl,
		UnrealizedPnl:  ev.UnrealizedPnl,
		NetLiquidation: ev.NetLiquidation,
		UpdateType:     ev.UpdateType,
	}

	m.mu.Lock()
	m.last = update
	m.seen = true
	m.mu.Unlock()

	_ = m.emit.Emit(codec.EncodeAccountUpdate(nil, update))
}

// HandleRequest answers a client account request: replays the cached
// snapshot when one exists, and always asks the host for a fresh one.
func (m *Monitor) HandleRequest(ctx context.Context) error {
	m.mu.Lock()
	last, seen := m.last, m.seen
	m.mu.Unlock()

	if seen {
		if err := m.emit.Emit(codec.EncodeAccountUpdate(nil, last)); err != nil {
			return errors.Wrap(err, "emit cached account")
		}
	}
	if err := m.hostRef.RequestAccount(ctx); err != nil {
		return errors.Wrap(err, "request account")
	}
	return nil
}

// Last returns the cached snapshot, when any has been seen.
func (m *Monitor) Last() (schema.AccountUpdate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.seen
}

// Healthy checks balance and daily loss against the limits.
func (m *Monitor) Healthy(limits HealthLimits) (bool, string) {
	m.mu.Lock()
	last, seen := m.last, m.seen
	m.mu.Unlock()

	if !seen {
		return false, "no account snapshot received"
	}

	if min, ok := toFloat(limits.MinBalance); ok && last.Cash < min {
		return false, fmt.Sprintf("balance %.2f below minimum %.2f", last.Cash, min)
	}
	daily := last.RealizedPnl + last.UnrealizedPnl
	if maxLoss, ok := toFloat(limits.MaxDailyLoss); ok && daily < -maxLoss {
		return false, fmt.Sprintf("daily loss %.2f exceeds limit %.2f", -daily, maxLoss)
	}
	if last.BuyingPower <= 0 {
		return false, "no buying power available"
	}
	return true, "account healthy"
}

func toFloat(d decimal.Decimal) (float64, bool) {
	s := fmt.Sprint(d)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}
