package storage

import "cloudchat/internal/utils"

var (
	ErrNoRows         = utils.NewChatError("no rows in result set")
	ErrDBNotConnected = utils.NewChatError("database not connected")
)
