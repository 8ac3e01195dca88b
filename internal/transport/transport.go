// Package transport is the boundary to the server-push event channel. The
// core only ever sees the Conn interface and typed events; framing is an
// implementation detail of the socket behind it.
package transport

import "cloudchat/internal/models"

// Conn is an opaque bidirectional event channel. Events() delivers decoded
// inbound events in arrival order and is closed when the connection dies;
// Emit sends one outbound intent.
type Conn interface {
	Events() <-chan models.Event
	Emit(intent models.Intent) error
	Close() error
}
