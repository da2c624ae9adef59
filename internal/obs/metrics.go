// Package obs collects lightweight bridge counters.
package obs

import "sync/atomic"

// Metrics counts bridge activity. All methods are safe for concurrent use.
type Metrics struct {
	framesSent     atomic.Uint64
	sendErrors     atomic.Uint64
	queueDrops     atomic.Uint64
	commands       atomic.Uint64
	protocolErrors atomic.Uint64
	connects       atomic.Uint64
	disconnects    atomic.Uint64
	rejects        atomic.Uint64
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	FramesSent     uint64
	SendErrors     uint64
	QueueDrops     uint64
	Commands       uint64
	ProtocolErrors uint64
	Connects       uint64
	Disconnects    uint64
	Rejects        uint64
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) FrameSent() {
	if m != nil {
		m.framesSent.Add(1)
	}
}

func (m *Metrics) SendError() {
	if m != nil {
		m.sendErrors.Add(1)
	}
}

func (m *Metrics) QueueDrop() {
	if m != nil {
		m.queueDrops.Add(1)
	}
}

func (m *Metrics) Command() {
	if m != nil {
		m.commands.Add(1)
	}
}

func (m *Metrics) ProtocolError() {
	if m != nil {
		m.protocolErrors.Add(1)
	}
}

func (m *Metrics) Connect() {
	if m != nil {
		m.connects.Add(1)
	}
}

func (m *Metrics) Disconnect() {
	if m != nil {
		m.disconnects.Add(1)
	}
}

func (m *Metrics) Reject() {
	if m != nil {
		m.rejects.Add(1)
	}
}

// Snapshot captures the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		FramesSent:     m.framesSent.Load(),
		SendErrors:     m.sendErrors.Load(),
		QueueDrops:     m.queueDrops.Load(),
		Commands:       m.commands.Load(),
		ProtocolErrors: m.protocolErrors.Load(),
		Connects:       m.connects.Load(),
		Disconnects:    m.disconnects.Load(),
		Rejects:        m.rejects.Load(),
	}
}
