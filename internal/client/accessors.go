package client

import "cloudchat/internal/models"

// Read accessors for the render boundary. Everything returns copies; the
// boundary never holds a reference into session state.

func (c *Client) FocusedRoom() (models.Room, bool) {
	id := c.Session.Rooms.Focused()
	if id == "" {
		return models.Room{}, false
	}
	return c.Session.Rooms.Room(id)
}

func (c *Client) VisibleMessages() []models.DisplayMessage {
	return c.Session.Messages()
}

func (c *Client) ActiveRooms() []models.Room {
	return c.Session.Rooms.ActiveRooms()
}

func (c *Client) Contacts() []models.Room {
	return c.Session.Rooms.Contacts()
}

func (c *Client) UnreadBadge() string {
	return c.Session.Rooms.UnreadBadge()
}

// PeerComposing reports whether the typing indicator shows for the focused
// room.
func (c *Client) PeerComposing() bool {
	focused := c.Session.Rooms.Focused()
	if focused == "" {
		return false
	}
	return c.Session.Typing.RemoteVisible(focused)
}

func (c *Client) Identity() string {
	return c.Session.Identity
}
