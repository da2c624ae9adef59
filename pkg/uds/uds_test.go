package uds

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"main/pkg/exception"
)

func TestNewClientEmptyPath(t *testing.T) {
	if _, err := NewClient("", ""); err != exception.ErrEmptyPathUDS {
		t.Fatalf("expected ErrEmptyPathUDS, got %v", err)
	}
}

func TestNewServerEmptyPath(t *testing.T) {
	if _, err := NewServer("", ""); err != exception.ErrEmptyPathUDS {
		t.Fatalf("expected ErrEmptyPathUDS, got %v", err)
	}
}

func TestRemoveIfExistsRejectsNonSocket(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-socket")
	if err := os.WriteFile(path, []byte("data"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := RemoveIfExists(path); err != exception.ErrPathNotSocketUDS {
		t.Fatalf("expected ErrPathNotSocketUDS, got %v", err)
	}
}

func TestAcceptTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uds.sock")

	server, err := NewServer(path, "")
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := server.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer server.Close()

	if _, err := server.Accept(20 * time.Millisecond); !IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

// One write on a seqpacket socket must arrive as exactly one read.
func TestSeqpacketPreservesBoundaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uds.sock")

	server, err := NewServer(path, "")
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := server.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer server.Close()

	client, err := NewClient(path, "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	clientConn, err := client.Dial()
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer clientConn.Close()

	serverConn, err := server.Accept(2 * time.Second)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	defer serverConn.Close()

	messages := []string{"first", "second message", "third"}
	for _, msg := range messages {
		if _, err := clientConn.Write([]byte(msg)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	buf := make([]byte, 1024)
	for _, want := range messages {
		_ = serverConn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, err := serverConn.Read(buf)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(buf[:n]) != want {
			t.Fatalf("message mismatch! should be %q but got %q", want, buf[:n])
		}
	}
}

func TestListenReplacesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uds.sock")

	first, err := NewServer(path, "")
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := first.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	// Simulate a crash: drop the listener reference without unlinking.
	first.ln = nil

	second, err := NewServer(path, "")
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := second.Listen(); err != nil {
		t.Fatalf("Listen over stale socket: %v", err)
	}
	defer second.Close()
}

func TestDialRetryWaitsForListener(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uds.sock")

	client, err := NewClient(path, "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		server, err := NewServer(path, "")
		if err != nil {
			return
		}
		_ = server.Listen()
	}()

	conn, err := client.DialRetry(2*time.Second, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("DialRetry: %v", err)
	}
	_ = conn.Close()
}
