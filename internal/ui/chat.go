package ui

import (
	"fmt"

	"cloudchat/internal/client"
	"cloudchat/internal/models"
	"cloudchat/internal/utils"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type ChatScreen struct {
	*UI
	Layout      *tview.Flex
	RoomList    *tview.List
	roomPane    *tview.Flex
	ChatView    *tview.TextView
	typingLine  *tview.TextView
	msgInput    *tview.InputField
	statusLine  *tview.TextView
	listedRooms []models.Room
	reply       *client.ReplyDraft
}

func (c *ChatScreen) Build() {
	c.RoomList = tview.NewList().
		ShowSecondaryText(true).
		SetHighlightFullLine(true)
	c.RoomList.SetSelectedBackgroundColor(c.Theme.Border).
		SetSelectedTextColor(c.Theme.Accent)
	c.RoomList.SetSelectedFunc(func(idx int, _, _ string, _ rune) {
		if idx < 0 || idx >= len(c.listedRooms) {
			return
		}
		if err := c.client.OpenRoom(c.listedRooms[idx].ID); err != nil {
			c.setStatus("open failed: " + err.Error())
			return
		}
		c.reply = nil
		c.App.SetFocus(c.msgInput)
		c.Refresh()
	})

	c.roomPane = tview.NewFlex().SetDirection(tview.FlexRow)
	c.roomPane.AddItem(c.RoomList, 0, 1, false)
	c.roomPane.SetBorder(true).
		SetTitleColor(c.Theme.Accent).
		SetBorderColor(c.Theme.Border)

	c.ChatView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	c.ChatView.SetBorder(true).
		SetBorderColor(c.Theme.Border).
		SetTitleColor(c.Theme.Accent)

	c.typingLine = tview.NewTextView().
		SetTextColor(c.Theme.Dim)

	c.msgInput = tview.NewInputField().
		SetPlaceholder("Type a message...").
		SetFieldBackgroundColor(c.Theme.Background).
		SetFieldTextColor(c.Theme.Foreground)
	c.msgInput.SetChangedFunc(func(text string) {
		c.client.InputChanged(text)
	})
	c.msgInput.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			c.submit()
			return nil
		case tcell.KeyEscape:
			if c.reply != nil {
				c.reply = nil
				c.Refresh()
				return nil
			}
		case tcell.KeyCtrlR:
			c.replyToLatest()
			return nil
		case tcell.KeyTab:
			c.App.SetFocus(c.RoomList)
			return nil
		}
		return event
	})
	c.msgInput.SetBorder(true).
		SetBorderColor(c.Theme.Border)

	c.statusLine = tview.NewTextView().
		SetTextColor(c.Theme.Dim)

	chatPane := tview.NewFlex().SetDirection(tview.FlexRow)
	chatPane.AddItem(c.ChatView, 0, 1, false).
		AddItem(c.typingLine, 1, 0, false).
		AddItem(c.msgInput, 3, 0, true).
		AddItem(c.statusLine, 1, 0, false)

	c.Layout = tview.NewFlex().SetDirection(tview.FlexColumn)
	c.Layout.AddItem(c.roomPane, 0, 1, false).
		AddItem(chatPane, 0, 3, true)

	c.App.SetFocus(c.RoomList)
	c.Refresh()
}

func (c *ChatScreen) submit() {
	text := c.msgInput.GetText()
	if text == "" {
		return
	}
	if err := c.client.SendMessage(text, c.reply); err != nil {
		c.setStatus("send failed: " + err.Error())
		return
	}
	c.reply = nil
	c.msgInput.SetText("")
	c.setStatus("")
}

// SetReplyTarget arms the next send as a reply to the given message.
func (c *ChatScreen) SetReplyTarget(msg models.DisplayMessage) {
	draft := client.NewReplyDraft(msg)
	c.reply = &draft
	c.Refresh()
}

// replyToLatest (Ctrl+R) arms a reply to the newest visible message.
func (c *ChatScreen) replyToLatest() {
	msgs := c.client.VisibleMessages()
	if len(msgs) == 0 {
		return
	}
	c.SetReplyTarget(msgs[len(msgs)-1])
}

// Refresh re-renders every pane from session state. Must run on the tview
// goroutine.
func (c *ChatScreen) Refresh() {
	c.renderRooms()
	c.renderMessages()
	c.renderTyping()
	c.renderReplyBanner()
}

func (c *ChatScreen) renderRooms() {
	selected := c.RoomList.GetCurrentItem()
	c.RoomList.Clear()

	active := c.client.ActiveRooms()
	contacts := c.client.Contacts()
	c.listedRooms = append(append([]models.Room{}, active...), contacts...)

	focusedID := ""
	if room, ok := c.client.FocusedRoom(); ok {
		focusedID = room.ID
	}
	for _, rm := range c.listedRooms {
		main := fmt.Sprintf("%s %s", rm.Avatar.Emoji, rm.Name)
		if rm.Unread > 0 && rm.ID != focusedID {
			main += fmt.Sprintf(" (%d)", rm.Unread)
		}
		secondary := tview.Escape(rm.LastPreview)
		c.RoomList.AddItem(main, secondary, 0, nil)
	}

	title := "[ Chats ]"
	if badge := c.client.UnreadBadge(); badge != "" {
		title = fmt.Sprintf("[ Chats (%s) ]", badge)
	}
	c.roomPane.SetTitle(title)

	if selected >= 0 && selected < c.RoomList.GetItemCount() {
		c.RoomList.SetCurrentItem(selected)
	}
}

func (c *ChatScreen) renderMessages() {
	room, ok := c.client.FocusedRoom()
	if !ok {
		c.ChatView.SetTitle("[ No chat selected ]")
		c.ChatView.SetText("Pick a chat from the list.")
		return
	}
	c.ChatView.SetTitle(fmt.Sprintf("[ %s ]", room.Name))

	c.ChatView.Clear()
	for _, m := range c.client.VisibleMessages() {
		c.writeMessage(m)
	}
	c.ChatView.ScrollToEnd()
}

// writeMessage appends one rendered message line. Body text goes through
// tview.Escape so message content can never inject color tags.
func (c *ChatScreen) writeMessage(m models.DisplayMessage) {
	name := m.Nickname
	if m.Self {
		name = "you"
	}
	lock := ""
	if m.Encrypted {
		lock = " 🔒"
	}
	if m.Reply != nil {
		fmt.Fprintf(c.ChatView, "[gray]  ┌ %s: %s[-]\n",
			tview.Escape(m.Reply.Nickname), tview.Escape(m.Reply.Excerpt))
	}
	fmt.Fprintf(c.ChatView, "[%s::b]%s[-::-] [gray]%s%s[-]\n%s\n\n",
		m.Avatar.Color, tview.Escape(name),
		utils.FormatPrettyTime(m.Timestamp), lock,
		tview.Escape(m.Content))
}

func (c *ChatScreen) renderTyping() {
	if c.client.PeerComposing() {
		c.typingLine.SetText("typing...")
	} else {
		c.typingLine.SetText("")
	}
}

func (c *ChatScreen) renderReplyBanner() {
	if c.reply == nil {
		return
	}
	c.setStatus(fmt.Sprintf("replying to %s: %s  (Esc to cancel)",
		c.reply.Nickname, c.reply.Content))
}

func (c *ChatScreen) setStatus(text string) {
	c.statusLine.SetText(tview.Escape(text))
}
