package client

import (
	"sync"

	"cloudchat/internal/models"
	"cloudchat/internal/storage"
	"cloudchat/internal/utils"
)

// Session is the explicit state object for one connected session: every
// piece of state the sync controller mutates lives here, nothing is ambient.
// The message list belongs exclusively to the focused room and is rebuilt on
// every focus change.
type Session struct {
	Identity string
	Nickname string

	Rooms  *RoomStore
	Ledger *DedupLedger
	Typing *TypingTracker

	mu       sync.RWMutex
	messages []models.DisplayMessage

	DB  *storage.Store
	Log *utils.RemoteLogger
}

func NewSession(identity string, dedupCapacity int, db *storage.Store, logger *utils.RemoteLogger) *Session {
	return &Session{
		Identity: identity,
		Rooms:    NewRoomStore(identity),
		Ledger:   NewDedupLedger(dedupCapacity),
		DB:       db,
		Log:      logger,
	}
}

// AppendMessage adds a display record to the focused room's view.
func (s *Session) AppendMessage(msg models.DisplayMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// ClearMessages empties the visible list (focus change or reset).
func (s *Session) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Messages returns a copy of the visible message list.
func (s *Session) Messages() []models.DisplayMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DisplayMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Reset returns the session to its post-connect blank state.
func (s *Session) Reset() {
	s.Rooms.Reset()
	s.Ledger.Reset()
	if s.Typing != nil {
		s.Typing.Reset()
	}
	s.ClearMessages()
}
