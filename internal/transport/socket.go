package transport

import (
	"encoding/json"
	"sync"

	"github.com/fasthttp/websocket"

	"cloudchat/internal/models"
	"cloudchat/internal/utils"
)

// frame is the wire envelope: {"event": "<name>", "data": {...}}.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Socket is the websocket implementation of Conn.
type Socket struct {
	ws     *websocket.Conn
	events chan models.Event
	log    *utils.RemoteLogger

	writeMu sync.Mutex
	closeMu sync.Once
}

// Dial connects to the push socket and starts the read loop. Frames that
// fail to decode (including unknown event names) are logged and skipped;
// only a dead connection closes the event channel.
func Dial(socketURL string, log *utils.RemoteLogger) (*Socket, error) {
	ws, _, err := websocket.DefaultDialer.Dial(socketURL, nil)
	if err != nil {
		return nil, utils.ErrNotConnected.WithDetails(err.Error())
	}
	s := &Socket{
		ws:     ws,
		events: make(chan models.Event, 64),
		log:    log,
	}
	go s.readLoop()
	return s, nil
}

func (s *Socket) Events() <-chan models.Event {
	return s.events
}

func (s *Socket) Emit(intent models.Intent) error {
	data, err := json.Marshal(intent)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(frame{Event: string(intent.Kind()), Data: data})
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.ws.WriteMessage(websocket.TextMessage, raw); err != nil {
		return utils.ErrNetworkFailed.WithDetails(err.Error())
	}
	return nil
}

func (s *Socket) Close() error {
	var err error
	s.closeMu.Do(func() {
		err = s.ws.Close()
	})
	return err
}

func (s *Socket) readLoop() {
	defer close(s.events)
	for {
		_, raw, err := s.ws.ReadMessage()
		if err != nil {
			s.log.Logf("transport: read loop ended: %v", err)
			return
		}
		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			s.log.Logf("transport: bad frame: %v", err)
			continue
		}
		ev, err := models.DecodeEvent(f.Event, f.Data)
		if err != nil {
			s.log.Logf("transport: dropping frame %q: %v", f.Event, err)
			continue
		}
		s.events <- ev
	}
}
