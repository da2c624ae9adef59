package bridge

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/codec"
	"main/internal/obs"
	"main/internal/schema"
	"main/pkg/exception"
	"main/pkg/uds"
)

// ConnState is the transport connection state.
type ConnState int32

const (
	StateListening ConnState = iota
	StateConnected
	StateDisconnected
	StateStopped
)

func (s ConnState) String() string {
	switch s {
	case StateListening:
		return "LISTENING"
	case StateConnected:
		return "CONNECTED"
	case StateDisconnected:
		return "DISCONNECTED"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Config controls the connection manager.
type Config struct {
	SocketPath     string
	Network        string
	Backoff        time.Duration
	AcceptTimeout  time.Duration
	ReadBufferSize int
	StopTimeout    time.Duration
}

func (c *Config) applyDefaults() {
	if c.Network == "" {
		c.Network = uds.NetworkSeqpacket
	}
	if c.Backoff <= 0 {
		c.Backoff = time.Second
	}
	if c.AcceptTimeout <= 0 {
		c.AcceptTimeout = 250 * time.Millisecond
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = 64 * 1024
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = 2 * time.Second
	}
}

// Server owns the exclusive client channel: it accepts exactly one client,
// runs its read loop, and returns to listening after a disconnect. A second
// client connecting while one is attached is answered with an error frame
// and closed, never multiplexed.
type Server struct {
	cfg      Config
	listener *uds.Server
	queue    *Queue
	dispatch *Dispatcher
	metrics  *obs.Metrics

	// onDisconnect clears per-connection state (market data subscriptions).
	// Business state in the order manager and position tracker survives.
	onDisconnect func()

	state   atomic.Int32
	conn    atomic.Pointer[net.UnixConn]
	running atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewServer creates the connection manager.
func NewServer(cfg Config, queue *Queue, dispatch *Dispatcher, metrics *obs.Metrics, onDisconnect func()) (*Server, error) {
	cfg.applyDefaults()
	listener, err := uds.NewServer(cfg.SocketPath, cfg.Network)
	if err != nil {
		return nil, errors.Wrap(err, "create listener")
	}
	return &Server{
		cfg:          cfg,
		listener:     listener,
		queue:        queue,
		dispatch:     dispatch,
		metrics:      metrics,
		onDisconnect: onDisconnect,
		done:         make(chan struct{}),
	}, nil
}

// State returns the current connection state.
func (s *Server) State() ConnState {
	return ConnState(s.state.Load())
}

// Start begins listening and spawns the accept/read loop and the queue
// drain loop.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Swap(true) {
		return exception.ErrAlreadyRunning
	}
	if err := s.listener.Listen(); err != nil {
		s.running.Store(false)
		return errors.Wrap(err, "listen "+s.cfg.SocketPath)
	}

	go s.queue.Run(ctx)
	go s.run(ctx)

	logs.Infof("bridge listening on %s", s.cfg.SocketPath)
	return nil
}

func (s *Server) run(ctx context.Context) {
	defer close(s.done)
	defer s.state.Store(int32(StateStopped))

	for s.running.Load() {
		s.state.Store(int32(StateListening))

		conn := s.acceptOne(ctx)
		if conn == nil {
			return
		}

		s.conn.Store(conn)
		s.state.Store(int32(StateConnected))
		s.queue.Bind(conn)
		s.metrics.Connect()
		logs.Info("client connected")

		rejectDone := make(chan struct{})
		s.wg.Add(1)
		go s.rejectLoop(rejectDone)

		s.readLoop(ctx, conn)

		close(rejectDone)
		s.wg.Wait()

		s.queue.Unbind()
		s.conn.Store(nil)
		_ = conn.Close()
		if s.onDisconnect != nil {
			s.onDisconnect()
		}
		s.metrics.Disconnect()
		s.state.Store(int32(StateDisconnected))
		logs.Infof("client disconnected, relisten in %s", s.cfg.Backoff)

		s.sleepBackoff(ctx)
	}
}

// acceptOne waits for the next client, looping on accept timeouts so the
// running flag stays observed. Returns nil when stopped.
func (s *Server) acceptOne(ctx context.Context) *net.UnixConn {
	for s.running.Load() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		conn, err := s.listener.Accept(s.cfg.AcceptTimeout)
		if err != nil {
			if uds.IsTimeout(err) {
				continue
			}
			if !s.running.Load() {
				return nil
			}
			logs.Errorf("accept, err: %+v", err)
			s.sleepBackoff(ctx)
			continue
		}
		return conn
	}
	return nil
}

// rejectLoop answers clients that attach while one is already connected.
func (s *Server) rejectLoop(done chan struct{}) {
	defer s.wg.Done()

	frame := codec.EncodeError(nil, schema.ErrorFrame{
		Code:    int32(schema.CodeClientRejected),
		Message: "another client is already connected",
	})
	for {
		select {
		case <-done:
			return
		default:
		}
		conn, err := s.listener.Accept(s.cfg.AcceptTimeout)
		if err != nil {
			if uds.IsTimeout(err) {
				continue
			}
			return
		}
		_, _ = conn.Write(frame)
		_ = conn.Close()
		s.metrics.Reject()
		logs.Info("rejected concurrent client")
	}
}

// readLoop blocks on the channel and hands each whole message to the
// dispatcher. A zero-byte or failed read means the client is gone.
func (s *Server) readLoop(ctx context.Context, conn *net.UnixConn) {
	buf := make([]byte, s.cfg.ReadBufferSize)
	for s.running.Load() {
		n, err := conn.Read(buf)
		if err != nil || n == 0 {
			return
		}
		msg := make([]byte, n)
		copy(msg, buf[:n])
		s.dispatch.Dispatch(ctx, msg)
	}
}

func (s *Server) sleepBackoff(ctx context.Context) {
	timer := time.NewTimer(s.cfg.Backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-s.queue.done:
	case <-timer.C:
	}
}

// Stop shuts the server down: clears the running flag, closes the listener
// and any live connection to unblock the loops, and joins them with a
// bounded timeout. Safe to call more than once.
func (s *Server) Stop() error {
	if !s.running.Swap(false) {
		return nil
	}

	_ = s.listener.Close()
	if conn := s.conn.Load(); conn != nil {
		_ = conn.Close()
	}

	select {
	case <-s.done:
	case <-time.After(s.cfg.StopTimeout):
		logs.Errorf("bridge run loop did not stop within %s", s.cfg.StopTimeout)
	}

	s.queue.Close()
	return nil
}
