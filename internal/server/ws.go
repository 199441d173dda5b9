package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/tactus/internal/config"
	"github.com/ayusman/tactus/internal/gesture"
	"github.com/ayusman/tactus/internal/monitoring"
	"github.com/ayusman/tactus/internal/recognizer"
	"github.com/ayusman/tactus/internal/touch"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Session message types.
const (
	MsgStart    = "start"
	MsgFrame    = "frame"
	MsgFinish   = "finish"
	MsgStarted  = "started"
	MsgFinished = "finished"
	MsgError    = "error"
)

// SessionMessage is exchanged in both directions on /api/session.
//
// Clients send "start", then any number of "frame" messages, then "finish".
// The server answers "start" with "started" and "finish" with "finished"
// carrying the recognized gesture, or null. Frames are not acknowledged.
type SessionMessage struct {
	Type    string          `json:"type"`
	Session string          `json:"session,omitempty"`
	Frame   *touch.Frame    `json:"frame,omitempty"`
	Gesture *gesture.Result `json:"gesture"`
	Error   string          `json:"error,omitempty"`
}

// SessionHandler streams recognition sessions over WebSocket.
// Every connection gets its own recognizer.
type SessionHandler struct {
	cfg     config.Config
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewSessionHandler creates a new SessionHandler using cfg for every connection.
func NewSessionHandler(cfg config.Config) *SessionHandler {
	return &SessionHandler{
		cfg:     cfg,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Clients returns the number of connected clients.
func (h *SessionHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec, err := recognizer.NewDefault(h.cfg)
	if err != nil {
		http.Error(w, "recognizer unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		monitoring.Logf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	for {
		var msg SessionMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				monitoring.Logf("websocket read error: %v", err)
			}
			return
		}

		reply := h.handle(rec, msg)
		if reply == nil {
			continue
		}
		if err := conn.WriteJSON(reply); err != nil {
			monitoring.Logf("websocket write error: %v", err)
			return
		}
	}
}

// handle applies one client message to rec and returns the reply, if any.
func (h *SessionHandler) handle(rec *recognizer.Recognizer, msg SessionMessage) *SessionMessage {
	switch msg.Type {
	case MsgStart:
		return &SessionMessage{Type: MsgStarted, Session: rec.StartEvaluation()}

	case MsgFrame:
		if msg.Frame == nil {
			return &SessionMessage{Type: MsgError, Error: "frame message without frame"}
		}
		if err := rec.AddFrame(*msg.Frame); err != nil {
			return &SessionMessage{Type: MsgError, Error: err.Error()}
		}
		return nil

	case MsgFinish:
		session := rec.Session()
		res, err := rec.FinishEvaluation()
		if err != nil {
			return &SessionMessage{Type: MsgError, Error: err.Error()}
		}
		return &SessionMessage{Type: MsgFinished, Session: session, Gesture: res}

	default:
		return &SessionMessage{Type: MsgError, Error: "unknown message type " + msg.Type}
	}
}
