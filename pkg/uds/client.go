package uds

import (
	"net"
	"time"

	"main/pkg/exception"
)

// Client dials Unix domain sockets using a precomputed address.
type Client struct {
	addr net.UnixAddr
}

// NewClient creates a client for the provided socket path. An empty network
// defaults to NetworkSeqpacket.
func NewClient(path, network string) (*Client, error) {
	if path == "" {
		return nil, exception.ErrEmptyPathUDS
	}
	if network == "" {
		network = NetworkSeqpacket
	}
	return &Client{addr: net.UnixAddr{Name: path, Net: network}}, nil
}

// Path returns the configured socket path.
func (c *Client) Path() string {
	if c == nil {
		return ""
	}
	return c.addr.Name
}

// Dial opens a connection to the server socket.
func (c *Client) Dial() (*net.UnixConn, error) {
	if c == nil {
		return nil, exception.ErrNilClientUDS
	}
	if c.addr.Name == "" {
		return nil, exception.ErrEmptyPathUDS
	}
	return net.DialUnix(c.addr.Net, nil, &c.addr)
}

// DialRetry keeps dialing until the server socket exists or the timeout
// elapses. Covers the window where the bridge is between listen cycles.
func (c *Client) DialRetry(timeout, interval time.Duration) (*net.UnixConn, error) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	deadline := time.Now().Add(timeout)
	for {
		conn, err := c.Dial()
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(interval)
	}
}
