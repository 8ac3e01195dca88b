package crypto

import "cloudchat/internal/utils"

var (
	ErrEncryptionFailed = utils.NewChatError("encryption failed")
	ErrDecryptionFailed = utils.NewChatError("decryption failed")
	ErrBadKey           = utils.NewChatError("invalid key material")
	ErrNoKeys           = utils.NewChatError("no key pair available")
)
