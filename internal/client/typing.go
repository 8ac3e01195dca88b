package client

import (
	"sync"
	"time"

	"cloudchat/internal/models"
)

// TypingState is the local composition state machine's state.
type TypingState int

const (
	TypingIdle TypingState = iota
	TypingComposing
	TypingPaused
)

// PauseDelay is how long input may stay still (while non-empty) before
// composing degrades to paused.
const PauseDelay = 800 * time.Millisecond

// TypingTracker runs the per-room local typing state machine and mirrors the
// remote party's indicator. Every local transition emits a typing intent;
// the remote side only ever toggles the visible indicator.
type TypingTracker struct {
	mu    sync.Mutex
	room  string
	state TypingState
	pause *time.Timer
	delay time.Duration
	emit  func(room string, state models.WireTypingState)

	remoteVisible map[string]bool
}

func NewTypingTracker(emit func(room string, state models.WireTypingState)) *TypingTracker {
	return &TypingTracker{
		delay:         PauseDelay,
		emit:          emit,
		remoteVisible: make(map[string]bool),
	}
}

// SetPauseDelay overrides the pause window; tests use short windows.
func (t *TypingTracker) SetPauseDelay(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.delay = d
}

func (t *TypingTracker) State() TypingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Input feeds the current input box content for the focused room. Typing
// intents are never emitted for the broadcast room. A new keystroke cancels
// any pending pause timer; an emptied input always returns to idle.
func (t *TypingTracker) Input(room, content string) {
	if room == "" || room == models.GlobalRoom {
		return
	}

	t.mu.Lock()
	if t.room != room {
		// Focus moved without FocusChanged; start clean.
		t.room = room
		t.state = TypingIdle
	}
	t.cancelPauseLocked()

	if content == "" {
		wasActive := t.state != TypingIdle
		t.state = TypingIdle
		t.mu.Unlock()
		if wasActive {
			t.emit(room, models.WireStop)
		}
		return
	}

	emitTyping := t.state != TypingComposing
	t.state = TypingComposing
	t.pause = time.AfterFunc(t.delay, func() { t.pauseFired(room) })
	t.mu.Unlock()

	if emitTyping {
		t.emit(room, models.WireTyping)
	}
}

// pauseFired transitions composing → paused exactly once per pause window.
func (t *TypingTracker) pauseFired(room string) {
	t.mu.Lock()
	if t.room != room || t.state != TypingComposing {
		t.mu.Unlock()
		return
	}
	t.state = TypingPaused
	t.mu.Unlock()
	t.emit(room, models.WirePaused)
}

// FocusChanged tells the tracker the focused room moved away from previous.
// The machine resets and the peer in the previous room gets a stop.
func (t *TypingTracker) FocusChanged(previous string) {
	t.mu.Lock()
	t.cancelPauseLocked()
	wasActive := t.state != TypingIdle && t.room == previous
	t.state = TypingIdle
	t.room = ""
	delete(t.remoteVisible, previous)
	t.mu.Unlock()

	if wasActive && previous != "" && previous != models.GlobalRoom {
		t.emit(previous, models.WireStop)
	}
}

// Remote applies a display_typing event from the peer. Only "typing" shows
// the indicator; both "paused" and "stop" clear it.
func (t *TypingTracker) Remote(ev models.DisplayTypingEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ev.State == models.WireTyping {
		t.remoteVisible[ev.Room] = true
	} else {
		delete(t.remoteVisible, ev.Room)
	}
}

// RemoteVisible reports whether the indicator shows for room.
func (t *TypingTracker) RemoteVisible(room string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remoteVisible[room]
}

// Reset drops all state without emitting.
func (t *TypingTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelPauseLocked()
	t.state = TypingIdle
	t.room = ""
	t.remoteVisible = make(map[string]bool)
}

func (t *TypingTracker) cancelPauseLocked() {
	if t.pause != nil {
		t.pause.Stop()
		t.pause = nil
	}
}
