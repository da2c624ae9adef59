package uds

import (
	"net"
	"os"
	"time"

	"main/pkg/exception"
)

// NetworkSeqpacket preserves message boundaries: one Read returns one
// client write, which the command dispatcher relies on.
const (
	NetworkSeqpacket = "unixpacket"
	NetworkStream    = "unix"
)

// Server listens for Unix domain socket connections.
type Server struct {
	addr net.UnixAddr
	ln   *net.UnixListener
}

// NewServer creates a server for the provided socket path. An empty network
// defaults to NetworkSeqpacket.
func NewServer(path, network string) (*Server, error) {
	if path == "" {
		return nil, exception.ErrEmptyPathUDS
	}
	if network == "" {
		network = NetworkSeqpacket
	}
	return &Server{addr: net.UnixAddr{Name: path, Net: network}}, nil
}

// Path returns the configured socket path.
func (s *Server) Path() string {
	if s == nil {
		return ""
	}
	return s.addr.Name
}

// Listen starts listening on the configured socket path.
// It removes a stale socket file when present.
func (s *Server) Listen() error {
	if s == nil {
		return exception.ErrNilServerUDS
	}
	if s.addr.Name == "" {
		return exception.ErrEmptyPathUDS
	}
	if s.ln != nil {
		return exception.ErrAlreadyListeningUDS
	}
	if err := RemoveIfExists(s.addr.Name); err != nil {
		return err
	}
	ln, err := net.ListenUnix(s.addr.Net, &s.addr)
	if err != nil {
		return err
	}
	ln.SetUnlinkOnClose(true)
	s.ln = ln
	return nil
}

// Accept waits for the next incoming connection, up to the given timeout.
// A zero timeout blocks until a client attaches or the listener closes.
func (s *Server) Accept(timeout time.Duration) (*net.UnixConn, error) {
	if s == nil {
		return nil, exception.ErrNilServerUDS
	}
	if s.ln == nil {
		return nil, exception.ErrNotListeningUDS
	}
	deadline := time.Time{}
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := s.ln.SetDeadline(deadline); err != nil {
		return nil, err
	}
	return s.ln.AcceptUnix()
}

// Close stops the listener. Safe to call when not listening.
func (s *Server) Close() error {
	if s == nil {
		return exception.ErrNilServerUDS
	}
	if s.ln == nil {
		return nil
	}
	err := s.ln.Close()
	s.ln = nil
	return err
}

// RemoveIfExists removes the socket file if it exists.
func RemoveIfExists(path string) error {
	if path == "" {
		return exception.ErrEmptyPathUDS
	}
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Mode()&os.ModeSocket == 0 {
		return exception.ErrPathNotSocketUDS
	}
	return os.Remove(path)
}

// IsTimeout reports whether err is an accept or read deadline expiry.
func IsTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
