package client

import "cloudchat/internal/utils"

var (
	ErrSendMessageFailed = utils.NewChatError("send message failed")
	ErrNotInitialized    = utils.NewChatError("not initialized")
	ErrEmptyMessage      = utils.NewChatError("empty message body")
	ErrForcedDisconnect  = utils.NewChatError("forced disconnect")
	ErrNoRoomFocused     = utils.NewChatError("no room focused")
)
