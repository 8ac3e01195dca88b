package ui

import (
	"cloudchat/internal/client"

	"github.com/rivo/tview"
)

type UI struct {
	App    *tview.Application
	Pages  *tview.Pages
	Theme  *Theme
	Chat   *ChatScreen
	client *client.Client
}

func NewUI(c *client.Client, accentHex string) *UI {
	u := &UI{
		App:    tview.NewApplication().EnableMouse(true),
		Theme:  NewTheme(accentHex),
		client: c,
	}
	u.Chat = &ChatScreen{UI: u}
	u.Chat.Build()

	u.Pages = tview.NewPages().
		AddPage("chat", u.Chat.Layout, true, true)
	u.App.SetRoot(u.Pages, true).
		SetFocus(u.Pages)

	// Session state changes on the client's event loop; redraws are queued
	// onto the tview goroutine.
	c.SetNotify(func() {
		u.App.QueueUpdateDraw(u.Chat.Refresh)
	})
	return u
}

func (u *UI) Run() error {
	return u.App.Run()
}

func (u *UI) Stop() {
	u.App.Stop()
}
