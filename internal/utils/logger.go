package utils

import (
	"fmt"
	"net"
	"sync"
)

// RemoteLogger streams log lines to any TCP client attached to its port.
// A zero-value (or failed) logger is safe to use; Logf becomes a no-op.
type RemoteLogger struct {
	Port     int
	Listener net.Listener

	mu      sync.Mutex
	clients []net.Conn
}

// NewRemoteLogger starts a TCP listener on the given port. On bind failure it
// returns a usable no-op logger together with the error, so callers can keep
// the same logging path regardless.
func NewRemoteLogger(port int) (*RemoteLogger, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return &RemoteLogger{}, err
	}
	rl := &RemoteLogger{
		Port:     port,
		Listener: ln,
	}
	go rl.acceptClients()
	return rl, nil
}

func (rl *RemoteLogger) acceptClients() {
	for {
		conn, err := rl.Listener.Accept()
		if err != nil {
			return
		}
		rl.mu.Lock()
		rl.clients = append(rl.clients, conn)
		rl.mu.Unlock()
	}
}

// Logf sends a formatted log message to all connected clients.
func (rl *RemoteLogger) Logf(format string, args ...any) {
	if rl == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for _, conn := range rl.clients {
		fmt.Fprintln(conn, msg)
	}
}

func (rl *RemoteLogger) Close() {
	if rl == nil {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for _, conn := range rl.clients {
		_ = conn.Close()
	}
	rl.clients = nil
	if rl.Listener != nil {
		_ = rl.Listener.Close()
	}
}
