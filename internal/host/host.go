// Package host defines the boundary to the trading host. The bridge never
// registers callbacks with the host; the host adapter pushes typed events
// onto a channel and a single consumer goroutine applies them, so the host's
// threading model stays on its side of the boundary.
package host

import (
	"context"

	"main/internal/schema"
)

// Handle is the trading host's opaque reference to a submitted order.
type Handle string

// Instrument describes a resolvable contract.
type Instrument struct {
	Name       string
	TickSize   float64
	PointValue float64
	MinMove    float64
	Exchange   string
}

// OrderSpec is everything the host needs to create an order.
type OrderSpec struct {
	Action      schema.OrderAction
	Instrument  string
	Quantity    int32
	Kind        schema.OrderKind
	TimeInForce string
	LimitPrice  float64
	StopPrice   float64
	Signal      string
}

// Modification carries the mutable order fields. Zero means unchanged.
type Modification struct {
	Quantity   int32
	LimitPrice float64
	StopPrice  float64
}

// Host is the trading host adapter.
type Host interface {
	// Connected reports whether the host link is up.
	Connected() bool

	// Resolve looks up an instrument by name.
	Resolve(instrument string) (Instrument, error)

	// Submit creates an order and returns the host's handle for it.
	Submit(ctx context.Context, spec OrderSpec) (Handle, error)

	// Cancel requests cancellation of a working order.
	Cancel(ctx context.Context, handle Handle) error

	// Modify requests a change to a working order.
	Modify(ctx context.Context, handle Handle, mod Modification) error

	// SubscribeTicks starts tick delivery for an instrument.
	SubscribeTicks(instrument string) error

	// UnsubscribeTicks stops tick delivery for an instrument.
	UnsubscribeTicks(instrument string) error

	// RequestAccount asks the host to emit a fresh account event.
	RequestAccount(ctx context.Context) error

	// Events is the host-to-bridge event stream. Closed on host shutdown.
	Events() <-chan Event
}
