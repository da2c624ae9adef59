package exception

import "errors"

// Bridge errors
var (
	// ErrNotConnected is returned when sending while no client is attached.
	ErrNotConnected = errors.New("bridge: not connected")

	// ErrQueueFull is returned when the outbound queue cannot accept more
	// frames under the configured overflow policy.
	ErrQueueFull = errors.New("bridge: outbound queue full")

	// ErrQueueClosed is returned when enqueueing after shutdown.
	ErrQueueClosed = errors.New("bridge: outbound queue closed")

	// ErrAlreadyRunning is returned when Start is called twice.
	ErrAlreadyRunning = errors.New("bridge: already running")
)
