package bridge

import (
	"context"
	"net"
	"sync/atomic"

	"main/internal/obs"
	"main/pkg/exception"
)

// OverflowPolicy decides what happens when the outbound queue is full.
type OverflowPolicy uint8

const (
	// PolicyBlock makes Emit wait for queue space.
	PolicyBlock OverflowPolicy = iota
	// PolicyDropOldest evicts the oldest queued frame to admit the new one.
	PolicyDropOldest
)

// ParsePolicy reads a policy name from config.
func ParsePolicy(name string) (OverflowPolicy, error) {
	switch name {
	case "", "block":
		return PolicyBlock, nil
	case "drop-oldest":
		return PolicyDropOldest, nil
	default:
		return PolicyBlock, exception.ErrInvalidArgument
	}
}

// Queue is the single-writer outbound funnel. Any goroutine may Emit;
// exactly one drain goroutine writes to the transport, so the channel never
// sees interleaved writes. FIFO by arrival.
type Queue struct {
	ch      chan []byte
	done    chan struct{}
	policy  OverflowPolicy
	metrics *obs.Metrics
	closed  atomic.Bool
	conn    atomic.Pointer[net.UnixConn]
}

// NewQueue allocates a bounded queue.
func NewQueue(capacity int, policy OverflowPolicy, metrics *obs.Metrics) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{
		ch:      make(chan []byte, capacity),
		done:    make(chan struct{}),
		policy:  policy,
		metrics: metrics,
	}
}

// Bind attaches the live client connection. Only the connection manager
// calls this.
func (q *Queue) Bind(conn *net.UnixConn) {
	q.conn.Store(conn)
}

// Unbind detaches the connection. Queued and future frames are dropped
// until the next Bind; delivery is best effort.
func (q *Queue) Unbind() {
	q.conn.Store(nil)
}

// Emit enqueues one encoded frame. With PolicyBlock a full queue blocks the
// producer; with PolicyDropOldest the oldest frame is evicted and counted.
func (q *Queue) Emit(frame []byte) error {
	if q.closed.Load() {
		return exception.ErrQueueClosed
	}
	if q.conn.Load() == nil {
		q.metrics.QueueDrop()
		return exception.ErrNotConnected
	}

	if q.policy == PolicyBlock {
		select {
		case q.ch <- frame:
			return nil
		case <-q.done:
			return exception.ErrQueueClosed
		}
	}

	for {
		select {
		case q.ch <- frame:
			return nil
		default:
		}
		select {
		case <-q.ch:
			q.metrics.QueueDrop()
		default:
		}
	}
}

// Run drains frames to the bound connection until the context is done.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-q.ch:
			conn := q.conn.Load()
			if conn == nil {
				q.metrics.QueueDrop()
				continue
			}
			if _, err := conn.Write(frame); err != nil {
				q.metrics.SendError()
				continue
			}
			q.metrics.FrameSent()
		}
	}
}

// Close stops the queue from accepting new frames and releases blocked
// producers. Idempotent.
func (q *Queue) Close() {
	if !q.closed.Swap(true) {
		close(q.done)
	}
}

// Len returns the number of queued frames.
func (q *Queue) Len() int {
	return len(q.ch)
}
