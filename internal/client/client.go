// Package client is the synchronization core: it keeps the local view of all
// rooms consistent with the server-pushed event stream, owns unread/typing
// state, and routes message content through the key manager.
package client

import (
	"cloudchat/internal/keyring"
	"cloudchat/internal/models"
	"cloudchat/internal/transport"
)

// Client is the sync controller. All inbound events funnel through Run's
// single loop; the render boundary only ever touches the read accessors and
// the user-action methods (OpenRoom, SendMessage, InputChanged).
type Client struct {
	Session *Session
	Keys    *keyring.Keyring
	Conn    transport.Conn
	API     *API
	Codec   *Codec

	notify func()
	forced bool
}

func New(session *Session, keys *keyring.Keyring, conn transport.Conn, api *API) *Client {
	c := &Client{
		Session: session,
		Keys:    keys,
		Conn:    conn,
		API:     api,
		Codec:   NewCodec(keys, session.Identity),
	}
	session.Typing = NewTypingTracker(func(room string, state models.WireTypingState) {
		if err := conn.Emit(models.TypingIntent{Room: room, State: state}); err != nil {
			session.Log.Logf("typing intent failed: %v", err)
		}
	})
	return c
}

// SetNotify installs the render boundary's change callback. It is invoked
// after every state mutation; the boundary pulls fresh state through the
// accessors.
func (c *Client) SetNotify(fn func()) {
	c.notify = fn
}

func (c *Client) changed() {
	if c.notify != nil {
		c.notify()
	}
}

// Start runs the connect sequence: announce presence and load the
// room/contact directory.
func (c *Client) Start() error {
	if err := c.Conn.Emit(models.UpdateActivityIntent{Activity: "Online"}); err != nil {
		c.Session.Log.Logf("activity announce failed: %v", err)
	}
	return c.LoadDirectory()
}

// Run consumes transport events until the connection dies. It returns
// ErrForcedDisconnect when the server ordered this identity off; the caller
// treats that as a full reload.
func (c *Client) Run() error {
	for ev := range c.Conn.Events() {
		c.handleEvent(ev)
	}
	if c.forced {
		return ErrForcedDisconnect
	}
	return nil
}

func (c *Client) Close() error {
	return c.Conn.Close()
}
