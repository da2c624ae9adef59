package bridge

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"main/internal/account"
	"main/internal/codec"
	"main/internal/host"
	"main/internal/host/sim"
	"main/internal/md"
	"main/internal/obs"
	"main/internal/om"
	"main/internal/schema"
	"main/internal/state"
	"main/pkg/uds"
)

type bridgeFixture struct {
	path    string
	server  *Server
	metrics *obs.Metrics
	market  *md.Manager
}

// newBridgeFixture wires a full bridge over the paper host on a temp socket.
func newBridgeFixture(t *testing.T) *bridgeFixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bridge.sock")

	trading := sim.New(sim.Config{
		Instruments: []host.Instrument{
			{Name: "ES 12-25", TickSize: 0.25, PointValue: 50, Exchange: "CME"},
		},
		AutoFill: true,
		Seed:     1,
	})

	metrics := obs.NewMetrics()
	queue := NewQueue(128, PolicyBlock, metrics)
	market := md.NewManager(trading, queue)
	accounts := account.NewMonitor(trading, queue)
	orders := om.NewManager(trading, queue, state.NewTracker(market.LastPrice))
	dispatch := NewDispatcher(orders, market, accounts, queue, metrics)

	server, err := NewServer(Config{
		SocketPath:    path,
		Backoff:       50 * time.Millisecond,
		AcceptTimeout: 50 * time.Millisecond,
	}, queue, dispatch, metrics, market.ClearSubscriptions)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	router := NewRouter(orders, market, accounts, nil, trading.Events())
	go router.Run(ctx)

	if err := server.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		_ = server.Stop()
		trading.Close()
		cancel()
	})

	return &bridgeFixture{path: path, server: server, metrics: metrics, market: market}
}

func dialBridge(t *testing.T, path string) *net.UnixConn {
	t.Helper()
	client, err := uds.NewClient(path, "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	conn, err := client.DialRetry(2*time.Second, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("DialRetry: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil collects frames until accept returns true or the deadline hits.
func readUntil(t *testing.T, conn *net.UnixConn, accept func(frame []byte) bool) {
	t.Helper()
	buf := make([]byte, 64*1024)
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, err := conn.Read(buf)
		if err != nil {
			if uds.IsTimeout(err) {
				continue
			}
			t.Fatalf("read: %v", err)
		}
		if n == 0 {
			continue
		}
		if accept(buf[:n]) {
			return
		}
	}
	t.Fatalf("expected frame not received before deadline")
}

func TestOrderLifecycleOverSocket(t *testing.T) {
	f := newBridgeFixture(t)
	conn := dialBridge(t, f.path)

	payload := codec.EncodeOrderCommand(nil, schema.OrderCommand{
		Action:      schema.ActionBuy,
		Instrument:  "ES 12-25",
		Quantity:    2,
		Kind:        schema.KindMarket,
		TimeInForce: "DAY",
		SignalName:  "itest-1",
	})
	if _, err := conn.Write(append([]byte("ORDER|"), payload...)); err != nil {
		t.Fatalf("write order: %v", err)
	}

	var states []schema.WireState
	sawPosition := false
	readUntil(t, conn, func(frame []byte) bool {
		switch schema.MessageType(frame[0]) {
		case schema.MessageOrderUpdate:
			up, err := codec.DecodeOrderUpdate(frame)
			if err != nil {
				t.Fatalf("DecodeOrderUpdate: %v", err)
			}
			if up.OrderID != "itest-1" {
				t.Fatalf("order id mismatch! should be itest-1 but got %s", up.OrderID)
			}
			states = append(states, up.State)
		case schema.MessagePositionUpdate:
			sawPosition = true
		}
		return sawPosition && len(states) > 0 && states[len(states)-1] == schema.StateFilled
	})

	// Ranks must never decrease across the emitted sequence.
	for i := 1; i < len(states); i++ {
		if states[i].Rank() < states[i-1].Rank() {
			t.Fatalf("state regression on the wire: %v", states)
		}
	}
}

func TestSecondClientRejected(t *testing.T) {
	f := newBridgeFixture(t)
	first := dialBridge(t, f.path)

	// Make sure the first client is attached before the second dials.
	if _, err := first.Write([]byte("REQUEST_ACCOUNT")); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(t, first, func(frame []byte) bool {
		return schema.MessageType(frame[0]) == schema.MessageAccountUpdate
	})

	second := dialBridge(t, f.path)
	readUntil(t, second, func(frame []byte) bool {
		if schema.MessageType(frame[0]) != schema.MessageError {
			return false
		}
		ef, err := codec.DecodeError(frame)
		if err != nil {
			t.Fatalf("DecodeError: %v", err)
		}
		if ef.Code != int32(schema.CodeClientRejected) {
			t.Fatalf("reject code mismatch! should be %d but got %d", schema.CodeClientRejected, ef.Code)
		}
		return true
	})

	// The first client is unaffected.
	if _, err := first.Write([]byte("REQUEST_ACCOUNT")); err != nil {
		t.Fatalf("write after reject: %v", err)
	}
	readUntil(t, first, func(frame []byte) bool {
		return schema.MessageType(frame[0]) == schema.MessageAccountUpdate
	})
}

func TestReconnectAfterDisconnect(t *testing.T) {
	f := newBridgeFixture(t)

	first := dialBridge(t, f.path)
	if _, err := first.Write([]byte("SUBSCRIBE|ES 12-25")); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(t, first, func(frame []byte) bool {
		return schema.MessageType(frame[0]) == schema.MessageTick
	})
	_ = first.Close()

	// Subscriptions are per-connection and must not survive the client.
	deadline := time.Now().Add(2 * time.Second)
	for f.market.Subscribed("ES 12-25") {
		if time.Now().After(deadline) {
			t.Fatalf("subscription survived disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}

	second := dialBridge(t, f.path)
	if _, err := second.Write([]byte("REQUEST_ACCOUNT")); err != nil {
		t.Fatalf("write on reconnect: %v", err)
	}
	readUntil(t, second, func(frame []byte) bool {
		return schema.MessageType(frame[0]) == schema.MessageAccountUpdate
	})

	snap := f.metrics.Snapshot()
	if snap.Connects < 2 || snap.Disconnects < 1 {
		t.Fatalf("connection counters mismatch! got %+v", snap)
	}
}
