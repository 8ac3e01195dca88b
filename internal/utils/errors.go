package utils

// ChatError is the shared error shape for the client. Sentinel instances are
// declared package-level; WithDetails derives a copy that still matches the
// sentinel through errors.Is.
type ChatError struct {
	msg     string
	details string
}

func NewChatError(msg string) *ChatError {
	return &ChatError{msg: msg}
}

func (e *ChatError) Error() string {
	if e.details == "" {
		return e.msg
	}
	return e.msg + ": " + e.details
}

func (e *ChatError) WithDetails(details string) *ChatError {
	return &ChatError{msg: e.msg, details: details}
}

func (e *ChatError) Is(target error) bool {
	t, ok := target.(*ChatError)
	return ok && t.msg == e.msg
}

var (
	ErrNetworkFailed = NewChatError("network request failed")
	ErrNotConnected  = NewChatError("not connected")
)
